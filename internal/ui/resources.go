package ui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/slotbook/internal/resource"
)

func (a *App) resourcesCmd() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "resources",
		Short: "List bookable rooms and practitioners",
		Example: `  slotbook resources
  slotbook resources --category practitioner`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := a.config.ResourceDirectory()
			if err != nil {
				return err
			}
			cats := []resource.Category{resource.CategoryRoom, resource.CategoryPractitioner}
			if category != "" {
				c, err := resource.ParseCategory(category)
				if err != nil {
					return err
				}
				cats = []resource.Category{c}
			}

			out := cmd.OutOrStdout()
			for i, c := range cats {
				group := dir.ByCategory(c)
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s (%d)\n", formatHeader(categoryTitle(c)), group.Len())
				for _, r := range group.All() {
					fmt.Fprintf(out, "  %-12s %s%s\n", r.ID, r.DisplayName(), formatMuted(metadata(r.Metadata)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list this category (room or practitioner)")
	return cmd
}

func categoryTitle(c resource.Category) string {
	if c == resource.CategoryPractitioner {
		return "Practitioners"
	}
	return "Rooms"
}

// metadata renders key=value pairs in key order.
func metadata(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, k+"="+m[k])
	}
	return "  " + strings.Join(parts, " ")
}
