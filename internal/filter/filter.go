// Package filter selects resources by free-text query and facet criteria.
package filter

import (
	"slices"
	"strings"

	"learnmap/local-app/internal/model"
)

// Criteria is the active search state of a resource list.
// Empty facets do not constrain the result.
type Criteria struct {
	Query        string
	Types        []model.ResourceType
	Difficulties []model.Difficulty
	Tags         []string
}

// Apply returns the resources matching every criterion, in their original order.
func Apply(resources []model.Resource, c Criteria) []model.Resource {
	query := strings.ToLower(c.Query)
	out := make([]model.Resource, 0, len(resources))
	for _, r := range resources {
		if matches(r, query, c) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r model.Resource, query string, c Criteria) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(r.Title), query) &&
		!strings.Contains(strings.ToLower(r.Description), query) {
		return false
	}
	if len(c.Types) > 0 && !slices.Contains(c.Types, r.Type) {
		return false
	}
	if len(c.Difficulties) > 0 && !slices.Contains(c.Difficulties, r.Difficulty) {
		return false
	}
	if len(c.Tags) > 0 && !slices.ContainsFunc(r.Tags, func(tag string) bool {
		return slices.Contains(c.Tags, tag)
	}) {
		return false
	}
	return true
}

// Tags returns the distinct tags of resources in first-seen order.
func Tags(resources []model.Resource) []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, r := range resources {
		for _, tag := range r.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// ToggleType adds t to the type facet, or removes it if already present.
func (c *Criteria) ToggleType(t model.ResourceType) {
	c.Types = toggle(c.Types, t)
}

// ToggleDifficulty adds d to the difficulty facet, or removes it if already present.
func (c *Criteria) ToggleDifficulty(d model.Difficulty) {
	c.Difficulties = toggle(c.Difficulties, d)
}

// ToggleTag adds tag to the tag facet, or removes it if already present.
func (c *Criteria) ToggleTag(tag string) {
	c.Tags = toggle(c.Tags, tag)
}

// Clear resets the query and every facet.
func (c *Criteria) Clear() {
	*c = Criteria{}
}

// Active reports whether any facet is set. The query alone does not count.
func (c Criteria) Active() bool {
	return len(c.Types) > 0 || len(c.Difficulties) > 0 || len(c.Tags) > 0
}

func toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}
