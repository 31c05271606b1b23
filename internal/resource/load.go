package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// directoryFile is the on-disk shape of an external directory export.
type directoryFile struct {
	Resources []Resource `toml:"resources" yaml:"resources"`
}

// LoadFile reads a directory snapshot from a YAML (.yaml, .yml) or TOML
// (.toml) file.
func LoadFile(path string) (*Directory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a directory snapshot; ext selects the format.
func Parse(data []byte, ext string) (*Directory, error) {
	var f directoryFile
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing directory yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing directory toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported directory format %q", ext)
	}
	return NewDirectory(f.Resources)
}
