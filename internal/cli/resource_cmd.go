// Package cli provides the command-line interface functionality for learnmap.
// This file contains handlers for resource-related commands.
package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"learnmap/local-app/internal/filter"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/ui"
)

var resourceFields = []string{"title", "description", "url", "type", "difficulty", "tags"}

// resourceRef resolves "<milestone>.<resource>" positions, or
// "<milestone id>/<resource id>" when useID is set.
func (c *CLI) resourceRef(ref string, useID bool) (model.Milestone, model.Resource, error) {
	sep := "."
	if useID {
		sep = "/"
	}
	parts := strings.SplitN(ref, sep, 2)
	if len(parts) != 2 {
		return model.Milestone{}, model.Resource{}, fmt.Errorf("invalid resource reference %q, expected <milestone>%s<resource>", ref, sep)
	}

	m, _, err := c.milestoneRef(parts[0], useID)
	if err != nil {
		return model.Milestone{}, model.Resource{}, err
	}

	index := -1
	if useID {
		index = slices.IndexFunc(m.Resources, func(r model.Resource) bool { return r.ID == parts[1] })
	} else if n, err := strconv.Atoi(parts[1]); err == nil {
		index = n - 1
	}
	if index < 0 || index >= len(m.Resources) {
		return model.Milestone{}, model.Resource{}, fmt.Errorf("resource %s not found", ref)
	}
	return m, m.Resources[index], nil
}

func parseType(s string) (model.ResourceType, error) {
	t := model.ResourceType(strings.ToLower(s))
	if !t.Valid() {
		return "", fmt.Errorf("unknown resource type %q, expected one of %v", s, model.ResourceTypes)
	}
	return t, nil
}

func parseDifficulty(s string) (model.Difficulty, error) {
	d := model.Difficulty(strings.ToLower(s))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q, expected one of %v", s, model.Difficulties)
	}
	return d, nil
}

func parseTags(s string) []string {
	tags := []string{}
	for _, tag := range strings.Split(s, ",") {
		if tag = strings.TrimSpace(tag); tag != "" && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ResourceAdd handles the 'resource add' command
func (c *CLI) ResourceAdd(args []string) error {
	positional, flags := splitFlags(args)
	rest, fields := splitFields(positional, resourceFields...)
	if len(rest) != 2 {
		return fmt.Errorf("usage: resource add <milestone> <title> [url:<url>] [type:<type>] [difficulty:<difficulty>] [tags:<a,b>] [description:<text>] [--id]")
	}

	m, _, err := c.milestoneRef(rest[0], flags["id"])
	if err != nil {
		return err
	}

	in := model.ResourceInput{
		Title:       rest[1],
		Description: fields["description"],
		URL:         fields["url"],
		Type:        model.TypeArticle,
		Difficulty:  model.Beginner,
		Tags:        parseTags(fields["tags"]),
	}
	if s, ok := fields["type"]; ok {
		if in.Type, err = parseType(s); err != nil {
			return err
		}
	}
	if s, ok := fields["difficulty"]; ok {
		if in.Difficulty, err = parseDifficulty(s); err != nil {
			return err
		}
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("resource title cannot be empty")
	}

	c.Store.AddResource(m.ID, in)
	return nil
}

// ResourceUpdate handles the 'resource update' command
func (c *CLI) ResourceUpdate(args []string) error {
	positional, flags := splitFlags(args)
	rest, fields := splitFields(positional, resourceFields...)
	if len(rest) != 1 || len(fields) == 0 {
		return fmt.Errorf("usage: resource update <resource> [title:<title>] [url:<url>] [type:<type>] [difficulty:<difficulty>] [tags:<a,b>] [description:<text>] [--id]")
	}

	m, res, err := c.resourceRef(rest[0], flags["id"])
	if err != nil {
		return err
	}

	var patch model.ResourcePatch
	if s, ok := fields["title"]; ok {
		patch.Title = &s
	}
	if s, ok := fields["description"]; ok {
		patch.Description = &s
	}
	if s, ok := fields["url"]; ok {
		patch.URL = &s
	}
	if s, ok := fields["type"]; ok {
		t, err := parseType(s)
		if err != nil {
			return err
		}
		patch.Type = &t
	}
	if s, ok := fields["difficulty"]; ok {
		d, err := parseDifficulty(s)
		if err != nil {
			return err
		}
		patch.Difficulty = &d
	}
	if s, ok := fields["tags"]; ok {
		patch.Tags = parseTags(s)
		patch.SetTags = true
	}

	if c.Store.UpdateResource(m.ID, res.ID, patch) {
		c.UI.Success("Resource updated.")
	}
	return nil
}

// ResourceDelete handles the 'resource delete' command
func (c *CLI) ResourceDelete(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 1 {
		return fmt.Errorf("usage: resource delete <resource> [--id] [--yes]")
	}

	m, res, err := c.resourceRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	if !flags["yes"] {
		ok, err := c.confirm(fmt.Sprintf("Are you sure you want to delete %q?", res.Title))
		if err != nil || !ok {
			return err
		}
	}

	c.Store.DeleteResource(m.ID, res.ID)
	return nil
}

// ResourceComplete handles the 'resource complete' command
func (c *CLI) ResourceComplete(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 1 {
		return fmt.Errorf("usage: resource complete <resource> [--id]")
	}

	m, res, err := c.resourceRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	if c.Store.ToggleResourceCompletion(m.ID, res.ID) {
		if res.Completed {
			c.UI.Info(fmt.Sprintf("%q marked as not completed.", res.Title))
		} else {
			c.UI.Success(fmt.Sprintf("%q completed.", res.Title))
		}
	}
	return nil
}

// ResourceFavorite handles the 'resource favorite' command
func (c *CLI) ResourceFavorite(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 1 {
		return fmt.Errorf("usage: resource favorite <resource> [--id]")
	}

	m, res, err := c.resourceRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	if c.Store.ToggleResourceFavorite(m.ID, res.ID) {
		if res.Favorite {
			c.UI.Info(fmt.Sprintf("%q removed from favorites.", res.Title))
		} else {
			c.UI.Success(fmt.Sprintf("%q added to favorites.", res.Title))
		}
	}
	return nil
}

// ResourceList handles the 'resource list' command, applying the active filter.
func (c *CLI) ResourceList(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) > 1 {
		return fmt.Errorf("usage: resource list [milestone] [--id]")
	}

	matches, err := c.matches(positional, flags["id"])
	if err != nil {
		return err
	}
	c.UI.ResourceList(matches, flags["id"])
	return nil
}

// ResourceFind handles the 'find' command: it sets the search query and lists matches.
func (c *CLI) ResourceFind(args []string) error {
	positional, flags := splitFlags(args)
	c.criteria.Query = strings.Join(positional, " ")

	matches, err := c.matches(nil, flags["id"])
	if err != nil {
		return err
	}
	if len(matches) > 0 {
		c.UI.Printf("Found %d matches:\n", len(matches))
	}
	c.UI.ResourceList(matches, flags["id"])
	return nil
}

// matches applies the current criteria to one milestone, or to all of them.
func (c *CLI) matches(scope []string, useID bool) ([]ui.ResourceMatch, error) {
	r := c.Store.Snapshot()
	first, last := 0, len(r.Milestones)
	if len(scope) == 1 {
		_, index, err := c.milestoneRef(scope[0], useID)
		if err != nil {
			return nil, err
		}
		first, last = index, index+1
	}

	var out []ui.ResourceMatch
	for i := first; i < last; i++ {
		m := r.Milestones[i]
		position := make(map[string]int, len(m.Resources))
		for j, res := range m.Resources {
			position[res.ID] = j
		}
		for _, res := range filter.Apply(m.Resources, c.criteria) {
			out = append(out, ui.ResourceMatch{
				Index:    fmt.Sprintf("%d.%d", i+1, position[res.ID]+1),
				Resource: res,
			})
		}
	}
	return out, nil
}

// ExecuteResourceCommand routes the resource command to the appropriate handler
func (c *CLI) ExecuteResourceCommand(args []string) error {
	if len(args) == 0 {
		return c.ResourceList(args)
	}

	operation := args[0]
	switch operation {
	case "add":
		return c.ResourceAdd(args[1:])
	case "update":
		return c.ResourceUpdate(args[1:])
	case "delete", "del":
		return c.ResourceDelete(args[1:])
	case "complete", "done":
		return c.ResourceComplete(args[1:])
	case "favorite", "fav":
		return c.ResourceFavorite(args[1:])
	case "list":
		return c.ResourceList(args[1:])
	default:
		return fmt.Errorf("unknown resource operation: %s", operation)
	}
}
