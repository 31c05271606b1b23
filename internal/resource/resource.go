// Package resource holds the read-only directory of bookable rooms and
// practitioners.
package resource

import (
	"errors"
	"fmt"
	"strings"
)

// Directory errors.
var (
	ErrEmptyID          = errors.New("resource id cannot be empty")
	ErrDuplicateID      = errors.New("duplicate resource id")
	ErrInvalidCategory  = errors.New("category must be 'room' or 'practitioner'")
	ErrResourceNotFound = errors.New("resource not found")
)

// Category distinguishes the two kinds of bookable resource.
type Category string

const (
	CategoryRoom         Category = "room"
	CategoryPractitioner Category = "practitioner"
)

// ParseCategory accepts "room(s)" and "practitioner(s)", case-insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "room", "rooms":
		return CategoryRoom, nil
	case "practitioner", "practitioners":
		return CategoryPractitioner, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryRoom || c == CategoryPractitioner
}

// Other returns the opposite category; used by the rooms/practitioners toggle.
func (c Category) Other() Category {
	if c == CategoryRoom {
		return CategoryPractitioner
	}
	return CategoryRoom
}

// Resource is a bookable entity.
type Resource struct {
	ID       string            `toml:"id" yaml:"id"`
	Name     string            `toml:"name" yaml:"name"`
	Category Category          `toml:"category" yaml:"category"`
	Metadata map[string]string `toml:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// DisplayName returns Name, falling back to ID.
func (r Resource) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Directory is an ordered, immutable list of resources.
type Directory struct {
	items []Resource
	index map[string]int
}

// NewDirectory validates resources and preserves their order.
func NewDirectory(resources []Resource) (*Directory, error) {
	d := &Directory{
		items: make([]Resource, 0, len(resources)),
		index: make(map[string]int, len(resources)),
	}
	for _, r := range resources {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, ErrEmptyID
		}
		if _, ok := d.index[r.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		if !r.Category.Valid() {
			cat, err := ParseCategory(string(r.Category))
			if err != nil {
				return nil, fmt.Errorf("resource %s: %w", r.ID, err)
			}
			r.Category = cat
		}
		d.index[r.ID] = len(d.items)
		d.items = append(d.items, cloneResource(r))
	}
	return d, nil
}

func cloneResource(r Resource) Resource {
	if r.Metadata != nil {
		md := make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			md[k] = v
		}
		r.Metadata = md
	}
	return r
}

// Len returns the number of resources.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.items)
}

// All returns a copy of the resources in directory order.
func (d *Directory) All() []Resource {
	if d == nil {
		return nil
	}
	out := make([]Resource, len(d.items))
	for i, r := range d.items {
		out[i] = cloneResource(r)
	}
	return out
}

// At returns the resource at position i.
func (d *Directory) At(i int) (Resource, bool) {
	if d == nil || i < 0 || i >= len(d.items) {
		return Resource{}, false
	}
	return cloneResource(d.items[i]), true
}

// Get looks up a resource by ID.
func (d *Directory) Get(id string) (Resource, error) {
	if d != nil {
		if i, ok := d.index[id]; ok {
			return cloneResource(d.items[i]), nil
		}
	}
	return Resource{}, fmt.Errorf("%w: %s", ErrResourceNotFound, id)
}

// Has reports whether id is in the directory.
func (d *Directory) Has(id string) bool {
	if d == nil {
		return false
	}
	_, ok := d.index[id]
	return ok
}

// IndexOf returns the column position of id, or -1.
func (d *Directory) IndexOf(id string) int {
	if d == nil {
		return -1
	}
	if i, ok := d.index[id]; ok {
		return i
	}
	return -1
}

// ByCategory returns the ordered slice of resources in cat.
func (d *Directory) ByCategory(cat Category) *Directory {
	var picked []Resource
	for _, r := range d.All() {
		if r.Category == cat {
			picked = append(picked, r)
		}
	}
	// Entries were validated on the way in.
	sub, _ := NewDirectory(picked)
	return sub
}
