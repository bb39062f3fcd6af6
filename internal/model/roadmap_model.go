// Package model defines the data structures used throughout the learnmap application.
package model

import "strings"

// ResourceType classifies a learning resource.
type ResourceType string

const (
	TypeArticle  ResourceType = "article"
	TypeVideo    ResourceType = "video"
	TypeTutorial ResourceType = "tutorial"
	TypeDataset  ResourceType = "dataset"
	TypeQuiz     ResourceType = "quiz"
	TypeCourse   ResourceType = "course"
)

// ResourceTypes lists every known resource type in display order.
var ResourceTypes = []ResourceType{TypeArticle, TypeVideo, TypeTutorial, TypeDataset, TypeQuiz, TypeCourse}

// Difficulty is the level a resource is aimed at.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Difficulties lists every known difficulty in display order.
var Difficulties = []Difficulty{Beginner, Intermediate, Advanced}

// Valid reports whether t is one of the known resource types.
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	for _, known := range Difficulties {
		if d == known {
			return true
		}
	}
	return false
}

// Roadmap is the root aggregate and the unit of persistence.
type Roadmap struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Milestones  []Milestone `json:"milestones" validate:"unique=ID,dive"`
}

// Milestone is an ordered phase of a roadmap.
type Milestone struct {
	ID          string     `json:"id" validate:"required"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsExpanded  bool       `json:"isExpanded"`
	Resources   []Resource `json:"resources" validate:"unique=ID,dive"`
}

// Resource is a single learning item inside a milestone.
type Resource struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	Type        ResourceType `json:"type" validate:"resource_type"`
	Difficulty  Difficulty   `json:"difficulty" validate:"difficulty"`
	Tags        []string     `json:"tags"`
	Completed   bool         `json:"completed"`
	Favorite    bool         `json:"favorite"`
}

// MilestoneInput carries the caller-supplied fields of a new milestone.
type MilestoneInput struct {
	Title       string
	Description string
}

// MilestonePatch is a partial milestone update. Nil fields are left unchanged.
type MilestonePatch struct {
	Title       *string
	Description *string
}

// ResourceInput carries the caller-supplied fields of a new resource.
type ResourceInput struct {
	Title       string
	Description string
	URL         string
	Type        ResourceType
	Difficulty  Difficulty
	Tags        []string
}

// ResourcePatch is a partial resource update. Nil fields are left unchanged.
type ResourcePatch struct {
	Title       *string
	Description *string
	URL         *string
	Type        *ResourceType
	Difficulty  *Difficulty
	Tags        []string
	SetTags     bool
	Completed   *bool
	Favorite    *bool
}

// Clone returns a deep copy of the roadmap.
func (r Roadmap) Clone() Roadmap {
	out := r
	out.Milestones = make([]Milestone, len(r.Milestones))
	for i, m := range r.Milestones {
		out.Milestones[i] = m.Clone()
	}
	return out
}

// Clone returns a deep copy of the milestone.
func (m Milestone) Clone() Milestone {
	out := m
	out.Resources = make([]Resource, len(m.Resources))
	for i, r := range m.Resources {
		out.Resources[i] = r.Clone()
	}
	return out
}

// Clone returns a deep copy of the resource.
func (r Resource) Clone() Resource {
	out := r
	out.Tags = append([]string{}, r.Tags...)
	return out
}

// Normalize replaces nil slices with empty ones throughout the tree so that
// the JSON form always carries arrays.
func (r *Roadmap) Normalize() {
	if r.Milestones == nil {
		r.Milestones = []Milestone{}
	}
	for i := range r.Milestones {
		m := &r.Milestones[i]
		if m.Resources == nil {
			m.Resources = []Resource{}
		}
		for j := range m.Resources {
			if m.Resources[j].Tags == nil {
				m.Resources[j].Tags = []string{}
			}
		}
	}
}

// cleanText replaces byte sequences that are not valid UTF-8 with U+FFFD,
// the same value they take once written as JSON.
func cleanText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func cleanTags(tags []string) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = cleanText(t)
	}
	return out
}

// Clean returns the input with every text field made valid UTF-8.
func (in MilestoneInput) Clean() MilestoneInput {
	in.Title = cleanText(in.Title)
	in.Description = cleanText(in.Description)
	return in
}

// Clean returns the input with every text field made valid UTF-8.
func (in ResourceInput) Clean() ResourceInput {
	in.Title = cleanText(in.Title)
	in.Description = cleanText(in.Description)
	in.URL = cleanText(in.URL)
	in.Type = ResourceType(cleanText(string(in.Type)))
	in.Difficulty = Difficulty(cleanText(string(in.Difficulty)))
	in.Tags = cleanTags(in.Tags)
	return in
}

// Apply merges the patch into m.
func (p MilestonePatch) Apply(m Milestone) Milestone {
	if p.Title != nil {
		m.Title = cleanText(*p.Title)
	}
	if p.Description != nil {
		m.Description = cleanText(*p.Description)
	}
	return m
}

// Empty reports whether the patch changes nothing.
func (p MilestonePatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}

// Apply merges the patch into r. Tags are replaced as a whole when SetTags is true.
func (p ResourcePatch) Apply(r Resource) Resource {
	if p.Title != nil {
		r.Title = cleanText(*p.Title)
	}
	if p.Description != nil {
		r.Description = cleanText(*p.Description)
	}
	if p.URL != nil {
		r.URL = cleanText(*p.URL)
	}
	if p.Type != nil {
		r.Type = ResourceType(cleanText(string(*p.Type)))
	}
	if p.Difficulty != nil {
		r.Difficulty = Difficulty(cleanText(string(*p.Difficulty)))
	}
	if p.SetTags {
		r.Tags = cleanTags(p.Tags)
	}
	if p.Completed != nil {
		r.Completed = *p.Completed
	}
	if p.Favorite != nil {
		r.Favorite = *p.Favorite
	}
	return r
}
