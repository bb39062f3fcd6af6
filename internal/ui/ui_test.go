package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"learnmap/local-app/internal/data"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/notify"
)

func TestLayoutFor(t *testing.T) {
	assert.Equal(t, Compact, LayoutFor(0))
	assert.Equal(t, Compact, LayoutFor(79))
	assert.Equal(t, Wide, LayoutFor(80))
	assert.Equal(t, Wide, LayoutFor(200))
	assert.Equal(t, "compact", Compact.String())
}

func TestNotify(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI(&buf, false, Wide)

	u.Notify(notify.Notification{Title: "Milestone Added", Description: `"A" has been added to your roadmap.`})
	u.Notify(notify.Notification{Title: "Import Failed", Description: "bad", Severity: notify.Destructive})

	assert.Equal(t, "Milestone Added: \"A\" has been added to your roadmap.\n! Import Failed: bad\n", buf.String())
}

func TestColorize(t *testing.T) {
	var buf bytes.Buffer
	NewUI(&buf, true, Wide).Success("ok")
	assert.Equal(t, string(ColorLightGreen)+"ok"+string(ColorDefault)+"\n", buf.String())
}

func TestPrintTemplateLine(t *testing.T) {
	var plain bytes.Buffer
	NewUI(&plain, false, Wide).PrintTemplateLine("a {{yellow}}b{{default}} c")
	assert.Equal(t, "a b c\n", plain.String())

	var colored bytes.Buffer
	NewUI(&colored, true, Wide).PrintTemplateLine("a {{yellow}}b{{default}} c")
	assert.Equal(t, "a "+string(ColorYellow)+"b"+string(ColorDefault)+" c\n", colored.String())

	assert.Equal(t, "a b c", StripMarkers("a {{yellow}}b{{default}} c"))
}

func TestRoadmapView_Layouts(t *testing.T) {
	r := data.DefaultRoadmap()
	r.Milestones[0].Resources[0].Completed = true

	var wide bytes.Buffer
	NewUI(&wide, false, Wide).RoadmapView(r, true)
	out := wide.String()
	assert.Contains(t, out, "Bioinformatics Learning Journey  1/10 completed (10%)")
	assert.Contains(t, out, "[-] 1 Introduction to Bioinformatics  1/2 50% [m1]")
	assert.Contains(t, out, "[x]   1.1 What is Bioinformatics? (article, beginner) #introduction #overview [r1]")
	assert.Contains(t, out, "https://www.nature.com/subjects/bioinformatics")
	assert.Contains(t, out, "[+] 2 DNA Sequence Analysis")
	assert.NotContains(t, out, "BLAST Tool Tutorial", "collapsed milestones hide resources")

	var compact bytes.Buffer
	NewUI(&compact, false, Compact).RoadmapView(r, false)
	out = compact.String()
	assert.Contains(t, out, "1.1 What is Bioinformatics? (article)")
	assert.NotContains(t, out, "https://")
	assert.NotContains(t, out, "[m1]")
}

func TestRoadmapView_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewUI(&buf, false, Wide).RoadmapView(model.Roadmap{Title: "T"}, false)
	assert.Contains(t, buf.String(), "No milestones yet")
}

func TestResourceList(t *testing.T) {
	var buf bytes.Buffer
	u := NewUI(&buf, false, Compact)

	u.ResourceList(nil, false)
	assert.Equal(t, "No resources match your filters.\n", buf.String())

	buf.Reset()
	u.ResourceList([]ResourceMatch{{Index: "2.1", Resource: model.Resource{Title: "{{weird}}", Type: model.TypeQuiz, Favorite: true}}}, false)
	assert.Equal(t, "[ ] * 2.1 { {weird}} (quiz)\n", buf.String())
}

func TestGetPromptString(t *testing.T) {
	u := NewUI(&bytes.Buffer{}, false, Wide)
	assert.Equal(t, "learnmap @ Bio > ", u.GetPromptString("Bio"))
	assert.Equal(t, "learnmap > ", u.GetPromptString(""))
}

func TestStatsView(t *testing.T) {
	var buf bytes.Buffer
	r := data.DefaultRoadmap()
	progress := make([]data.MilestoneProgress, len(r.Milestones))
	for i, m := range r.Milestones {
		progress[i] = data.Progress(m)
	}
	NewUI(&buf, false, Wide).StatsView(data.ComputeStats(r), progress)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Milestones: 5\nResources:  10\n"))
	assert.Contains(t, out, "  5 Machine Learning in Bioinformatics 0/2 0%")
}
