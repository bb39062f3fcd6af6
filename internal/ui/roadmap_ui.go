package ui

import (
	"fmt"
	"strings"

	"learnmap/local-app/internal/data"
	"learnmap/local-app/internal/model"
)

// text keeps user content from being read as a color marker.
func text(s string) string {
	return strings.ReplaceAll(s, "{{", "{ {")
}

// RoadmapView prints the roadmap header followed by every milestone.
// Collapsed milestones show only their header line.
func (u *UI) RoadmapView(r model.Roadmap, showID bool) {
	st := data.ComputeStats(r)
	u.PrintTemplateLine(fmt.Sprintf("{{purple}}%s{{default}}  {{gray}}%d/%d completed (%d%%){{default}}",
		text(r.Title), st.Completed, st.Resources, st.Percent))
	if u.layout == Wide && r.Description != "" {
		u.PrintTemplateLine("{{gray}}" + text(r.Description))
	}

	if len(r.Milestones) == 0 {
		u.Info("No milestones yet. Use 'milestone add <title>' to create one.")
		return
	}

	for i, m := range r.Milestones {
		u.PrintTemplateLine(u.milestoneLine(i, m, showID))
		if !m.IsExpanded {
			continue
		}
		for j, res := range m.Resources {
			for _, line := range u.resourceLines(fmt.Sprintf("%d.%d", i+1, j+1), res, showID, "    ") {
				u.PrintTemplateLine(line)
			}
		}
	}
}

// MilestoneView prints one milestone with all of its resources regardless of expansion.
func (u *UI) MilestoneView(position int, m model.Milestone, showID bool) {
	u.PrintTemplateLine(u.milestoneLine(position, m, showID))
	if m.Description != "" {
		u.PrintTemplateLine("    {{gray}}" + text(m.Description))
	}
	if len(m.Resources) == 0 {
		u.Info("    No resources yet.")
		return
	}
	for j, res := range m.Resources {
		for _, line := range u.resourceLines(fmt.Sprintf("%d.%d", position+1, j+1), res, showID, "    ") {
			u.PrintTemplateLine(line)
		}
	}
}

func (u *UI) milestoneLine(i int, m model.Milestone, showID bool) string {
	p := data.Progress(m)
	marker := "+"
	if m.IsExpanded {
		marker = "-"
	}

	var line strings.Builder
	line.WriteString(fmt.Sprintf("{{brown}}[%s]{{default}} {{yellow}}%d{{default}} %s", marker, i+1, text(m.Title)))
	line.WriteString(fmt.Sprintf("  {{gray}}%d/%d %d%%{{default}}", p.Completed, p.Total, p.Percent))
	if showID {
		line.WriteString(fmt.Sprintf(" {{orange}}[%s]{{default}}", m.ID))
	}
	return line.String()
}

// resourceLines renders one resource. The wide layout adds detail lines.
func (u *UI) resourceLines(index string, r model.Resource, showID bool, indent string) []string {
	check := "[ ]"
	if r.Completed {
		check = "{{green}}[x]{{default}}"
	}
	star := " "
	if r.Favorite {
		star = "{{yellow}}*{{default}}"
	}

	var line strings.Builder
	line.WriteString(fmt.Sprintf("%s%s %s {{yellow}}%s{{default}} %s", indent, check, star, index, text(r.Title)))
	if u.layout == Compact {
		line.WriteString(fmt.Sprintf(" {{gray}}(%s){{default}}", r.Type))
		if showID {
			line.WriteString(fmt.Sprintf(" {{orange}}[%s]{{default}}", r.ID))
		}
		return []string{line.String()}
	}

	line.WriteString(fmt.Sprintf(" {{gray}}(%s, %s){{default}}", r.Type, r.Difficulty))
	if len(r.Tags) > 0 {
		line.WriteString(" {{blue}}#" + text(strings.Join(r.Tags, " #")) + "{{default}}")
	}
	if showID {
		line.WriteString(fmt.Sprintf(" {{orange}}[%s]{{default}}", r.ID))
	}

	lines := []string{line.String()}
	detail := indent + strings.Repeat(" ", 6)
	if r.Description != "" {
		lines = append(lines, detail+"{{gray}}"+text(r.Description))
	}
	if r.URL != "" {
		lines = append(lines, detail+"{{blue}}"+text(r.URL))
	}
	return lines
}

// ResourceMatch is a filtered resource with its position in the roadmap.
type ResourceMatch struct {
	Index    string
	Resource model.Resource
}

// ResourceList prints filtered resources.
func (u *UI) ResourceList(matches []ResourceMatch, showID bool) {
	if len(matches) == 0 {
		u.Info("No resources match your filters.")
		return
	}
	for _, m := range matches {
		for _, line := range u.resourceLines(m.Index, m.Resource, showID, "") {
			u.PrintTemplateLine(line)
		}
	}
}

// StatsView prints overall and per-milestone progress.
func (u *UI) StatsView(st data.Stats, progress []data.MilestoneProgress) {
	u.Printf("Milestones: %d\n", st.Milestones)
	u.Printf("Resources:  %d\n", st.Resources)
	u.Printf("Completed:  %d (%d%%)\n", st.Completed, st.Percent)
	u.Printf("Favorites:  %d\n", st.Favorites)
	if u.layout == Compact {
		return
	}
	for i, p := range progress {
		u.PrintTemplateLine(fmt.Sprintf("  {{yellow}}%d{{default}} %s {{gray}}%d/%d %d%%{{default}}",
			i+1, text(p.Title), p.Completed, p.Total, p.Percent))
	}
}
