package transfer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnmap/local-app/internal/model"
)

func sampleRoadmap() model.Roadmap {
	return model.Roadmap{
		Title:       "Bioinformatics",
		Description: "Learn <things> & stuff",
		Milestones: []model.Milestone{
			{
				ID:         "m1",
				Title:      "Intro",
				IsExpanded: true,
				Resources: []model.Resource{
					{ID: "r1", Title: "What is it?", URL: "https://example.org/a?x=1&y=2", Type: model.TypeArticle, Difficulty: model.Beginner, Tags: []string{"intro", "overview"}, Completed: true},
					{ID: "r2", Title: "Video", Type: model.TypeVideo, Difficulty: model.Advanced, Tags: []string{}, Favorite: true},
				},
			},
			{ID: "m2", Title: "Empty", Resources: []model.Resource{}},
		},
	}
}

func TestExport_RoundTrip(t *testing.T) {
	r := sampleRoadmap()

	text, err := Export(r)
	require.NoError(t, err)

	got, err := Parse(text, Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestExport_IsDeterministicAndIndented(t *testing.T) {
	r := sampleRoadmap()

	a, err := Export(r)
	require.NoError(t, err)
	b, err := Export(r)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "{\n  \"title\": \"Bioinformatics\",\n  \"description\""))
	assert.Contains(t, a, `"isExpanded": true`)
	assert.Contains(t, a, "&y=2")
	assert.False(t, strings.HasSuffix(a, "\n"))
}

func TestExport_NilSlicesBecomeArrays(t *testing.T) {
	text, err := Export(model.Roadmap{Title: "T", Milestones: []model.Milestone{{ID: "m"}}})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &raw))
	milestones := raw["milestones"].([]interface{})
	assert.Equal(t, []interface{}{}, milestones[0].(map[string]interface{})["resources"])
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason error
	}{
		{"not json", "{oops", ErrInvalidJSON},
		{"array payload", `[1,2]`, ErrInvalidJSON},
		{"missing milestones", `{"title":"T"}`, ErrMissingMilestones},
		{"milestones not array", `{"title":"T","milestones":{}}`, ErrMissingMilestones},
		{"missing title", `{"milestones":[]}`, ErrMissingTitle},
		{"empty title", `{"title":"","milestones":[]}`, ErrMissingTitle},
		{"numeric title", `{"title":5,"milestones":[]}`, ErrMissingTitle},
		{"case variant title", `{"title":"T","Title":"","milestones":[]}`, ErrMissingTitle},
		{"only case variant title", `{"TITLE":"T","milestones":[]}`, ErrMissingTitle},
		{"case variant milestones", `{"title":"T","milestones":[],"Milestones":{}}`, ErrMissingMilestones},
		{"wrong nested type", `{"title":"T","milestones":[{"id":"m","resources":[{"id":"r","tags":"dna"}]}]}`, ErrMalformedEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.reason), "got %v", err)

			var importErr *ImportError
			assert.True(t, errors.As(err, &importErr))
		})
	}
}

func TestParse_LenientAcceptsSparseEntries(t *testing.T) {
	r, err := Parse(`{"title":"T","milestones":[{"title":"no id","resources":null},{"id":"x","resources":[{"id":"r","type":"podcast"}]}]}`, Options{})
	require.NoError(t, err)

	require.Len(t, r.Milestones, 2)
	assert.Equal(t, "", r.Milestones[0].ID)
	assert.Equal(t, []model.Resource{}, r.Milestones[0].Resources)
	assert.Equal(t, []string{}, r.Milestones[1].Resources[0].Tags)
	assert.Equal(t, model.ResourceType("podcast"), r.Milestones[1].Resources[0].Type)
}

func TestParse_StrictRejectsInvalidEntries(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"missing id", `{"title":"T","milestones":[{"title":"no id"}]}`, "Milestones[0].ID is required"},
		{"duplicate ids", `{"title":"T","milestones":[{"id":"a"},{"id":"a"}]}`, "duplicate ids"},
		{"unknown type", `{"title":"T","milestones":[{"id":"a","resources":[{"id":"r","type":"podcast","difficulty":"beginner"}]}]}`, "unknown resource type"},
		{"unknown difficulty", `{"title":"T","milestones":[{"id":"a","resources":[{"id":"r","type":"quiz","difficulty":"expert"}]}]}`, "unknown difficulty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, Options{Strict: true})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEntry)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
