package data

import (
	"math"

	"learnmap/local-app/internal/model"
)

// Stats summarizes progress over the whole roadmap.
type Stats struct {
	Milestones int
	Resources  int
	Completed  int
	Favorites  int
	// Percent is the rounded share of completed resources, 0 when there are none.
	Percent int
}

// MilestoneProgress summarizes progress within one milestone.
type MilestoneProgress struct {
	ID        string
	Title     string
	Completed int
	Total     int
	Percent   int
}

// ComputeStats counts resources across all milestones.
func ComputeStats(r model.Roadmap) Stats {
	st := Stats{Milestones: len(r.Milestones)}
	for _, m := range r.Milestones {
		for _, res := range m.Resources {
			st.Resources++
			if res.Completed {
				st.Completed++
			}
			if res.Favorite {
				st.Favorites++
			}
		}
	}
	st.Percent = percent(st.Completed, st.Resources)
	return st
}

// Progress reports completion for a single milestone.
func Progress(m model.Milestone) MilestoneProgress {
	p := MilestoneProgress{ID: m.ID, Title: m.Title, Total: len(m.Resources)}
	for _, res := range m.Resources {
		if res.Completed {
			p.Completed++
		}
	}
	p.Percent = percent(p.Completed, p.Total)
	return p
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// Stats returns progress counters for the current roadmap.
func (s *Store) Stats() Stats {
	return ComputeStats(s.Snapshot())
}

// MilestoneProgress returns per-milestone progress in roadmap order.
func (s *Store) MilestoneProgress() []MilestoneProgress {
	r := s.Snapshot()
	out := make([]MilestoneProgress, len(r.Milestones))
	for i, m := range r.Milestones {
		out[i] = Progress(m)
	}
	return out
}
