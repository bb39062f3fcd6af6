package cli

import (
	"fmt"
	"slices"
	"strings"

	"learnmap/local-app/internal/filter"
	"learnmap/local-app/internal/model"
)

// FilterInfo prints the active search query and facets.
func (c *CLI) FilterInfo() error {
	if !c.criteria.Active() && c.criteria.Query == "" {
		c.UI.Info("No filters active.")
		return nil
	}
	if c.criteria.Query != "" {
		c.UI.Printf("Search: %q\n", c.criteria.Query)
	}
	if len(c.criteria.Types) > 0 {
		c.UI.Printf("Types: %v\n", c.criteria.Types)
	}
	if len(c.criteria.Difficulties) > 0 {
		c.UI.Printf("Difficulties: %v\n", c.criteria.Difficulties)
	}
	if len(c.criteria.Tags) > 0 {
		c.UI.Printf("Tags: %s\n", strings.Join(c.criteria.Tags, ", "))
	}
	return nil
}

// FilterTags lists the tags in use, in one milestone or across the roadmap.
func (c *CLI) FilterTags(args []string) error {
	positional, flags := splitFlags(args)
	r := c.Store.Snapshot()

	milestones := r.Milestones
	if len(positional) == 1 {
		_, index, err := c.milestoneRef(positional[0], flags["id"])
		if err != nil {
			return err
		}
		milestones = r.Milestones[index : index+1]
	}

	var all []model.Resource
	for _, m := range milestones {
		all = append(all, m.Resources...)
	}
	tags := filter.Tags(all)

	if len(tags) == 0 {
		c.UI.Info("No tags in use.")
		return nil
	}
	for _, tag := range tags {
		marker := " "
		if slices.Contains(c.criteria.Tags, tag) {
			marker = "*"
		}
		c.UI.Printf("%s %s\n", marker, tag)
	}
	return nil
}

// ExecuteFilterCommand routes the filter command. Facet operations toggle
// a value on or off.
func (c *CLI) ExecuteFilterCommand(args []string) error {
	if len(args) == 0 {
		return c.FilterInfo()
	}

	operation := args[0]
	switch operation {
	case "type":
		if len(args) != 2 {
			return fmt.Errorf("usage: filter type <type>")
		}
		t, err := parseType(args[1])
		if err != nil {
			return err
		}
		c.criteria.ToggleType(t)
	case "difficulty":
		if len(args) != 2 {
			return fmt.Errorf("usage: filter difficulty <difficulty>")
		}
		d, err := parseDifficulty(args[1])
		if err != nil {
			return err
		}
		c.criteria.ToggleDifficulty(d)
	case "tag":
		if len(args) != 2 {
			return fmt.Errorf("usage: filter tag <tag>")
		}
		c.criteria.ToggleTag(args[1])
	case "tags":
		return c.FilterTags(args[1:])
	case "clear":
		c.criteria.Clear()
		c.UI.Info("Filters cleared.")
		return nil
	default:
		return fmt.Errorf("unknown filter operation: %s", operation)
	}
	return c.FilterInfo()
}
