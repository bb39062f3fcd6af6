package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnmap/local-app/internal/data"
	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/storage"
	"learnmap/local-app/internal/ui"
)

// scriptedReader replays queued lines and reports io.EOF once they run out.
type scriptedReader struct {
	lines   []string
	prompts []string
	closed  bool
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) SetPrompt(prompt string) { r.prompts = append(r.prompts, prompt) }

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

type harness struct {
	cli *CLI
	rl  *scriptedReader
	out *bytes.Buffer
	kv  *storage.MemoryStore
}

func newHarness(t *testing.T, lines ...string) harness {
	t.Helper()
	out := &bytes.Buffer{}
	u := ui.NewUI(out, false, ui.Wide)
	kv := storage.NewMemoryStore()

	store, err := data.NewStore(context.Background(), data.Deps{
		Storage:  storage.NewRoadmapStorage(kv, "bioinformatics-roadmap", log.Discard()),
		Notifier: u,
		Logger:   log.Discard(),
	})
	require.NoError(t, err)

	cfg := &model.Config{Export: model.ExportConfig{File: filepath.Join(t.TempDir(), "export.json")}}
	rl := &scriptedReader{lines: lines}
	return harness{cli: NewCLI(store, u, rl, cfg, log.Discard()), rl: rl, out: out, kv: kv}
}

func (h harness) run(t *testing.T, line string) error {
	t.Helper()
	return h.cli.ExecuteCommand(context.Background(), h.cli.ParseArgs(line))
}

func (h harness) titles() []string {
	var out []string
	for _, m := range h.cli.Store.Snapshot().Milestones {
		out = append(out, m.Title)
	}
	return out
}

func TestParseArgs(t *testing.T) {
	c := &CLI{}
	tests := []struct {
		input string
		want  []string
	}{
		{`roadmap view`, []string{"roadmap", "view"}},
		{`  roadmap   view  `, []string{"roadmap", "view"}},
		{`milestone add "Population Genetics" allele`, []string{"milestone", "add", "Population Genetics", "allele"}},
		{`r update 1.1 title:"New title"`, []string{"r", "update", "1.1", "title:New title"}},
		{`find ""`, []string{"find", ""}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ParseArgs(tt.input))
		})
	}
}

func TestExecuteCommand_Unknown(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "teleport now")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: teleport")

	assert.Error(t, h.cli.ExecuteCommand(context.Background(), nil))
	assert.ErrorIs(t, h.run(t, "quit"), ErrExit)
}

func TestMilestoneAdd(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, `milestone add "Population Genetics" "Allele frequencies"`))

	r := h.cli.Store.Snapshot()
	require.Len(t, r.Milestones, 6)
	last := r.Milestones[5]
	assert.Equal(t, "Population Genetics", last.Title)
	assert.Equal(t, "Allele frequencies", last.Description)
	assert.True(t, last.IsExpanded)
	assert.Empty(t, last.Resources)
	assert.Contains(t, h.out.String(), `Milestone Added: "Population Genetics" has been added to your roadmap.`)

	assert.Error(t, h.run(t, `milestone add ""`))
	assert.Error(t, h.run(t, `milestone add`))
}

func TestMilestoneUpdate(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, `m update 2 title:"DNA Analysis"`))
	assert.Equal(t, "DNA Analysis", h.cli.Store.Snapshot().Milestones[1].Title)

	require.NoError(t, h.run(t, `m update m3 description:NGS --id`))
	assert.Equal(t, "NGS", h.cli.Store.Snapshot().Milestones[2].Description)

	assert.Error(t, h.run(t, `m update 2`))
	assert.Error(t, h.run(t, `m update 9 title:X`))
}

func TestMilestoneMove(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "milestone move 1 3"))
	assert.Equal(t, []string{
		"DNA Sequence Analysis",
		"Genomics & Next-Generation Sequencing",
		"Introduction to Bioinformatics",
		"Proteomics & Structural Bioinformatics",
		"Machine Learning in Bioinformatics",
	}, h.titles())
	assert.Contains(t, h.out.String(), `Moved "Introduction to Bioinformatics" to position 3.`)

	require.NoError(t, h.run(t, "milestone move 2 2"))
	assert.Contains(t, h.out.String(), "Milestone stays in place.")
	assert.Error(t, h.run(t, "milestone move 1 6"))

	// With --id the target names the milestone whose place is taken
	require.NoError(t, h.run(t, "milestone move m5 m2 --id"))
	assert.Equal(t, "Machine Learning in Bioinformatics", h.titles()[0])
	assert.Contains(t, h.out.String(), `Moved "Machine Learning in Bioinformatics" to position 1.`)
	assert.Error(t, h.run(t, "milestone move m5 3 --id"))

	err := h.run(t, "milestone move 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "with --id the milestone whose place it takes")
}

func TestMilestoneDrag(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "milestone drag 5 up up"))
	assert.Equal(t, []string{
		"Introduction to Bioinformatics",
		"DNA Sequence Analysis",
		"Machine Learning in Bioinformatics",
		"Genomics & Next-Generation Sequencing",
		"Proteomics & Structural Bioinformatics",
	}, h.titles())

	before := h.titles()
	require.NoError(t, h.run(t, "milestone drag 1 down esc"))
	assert.Equal(t, before, h.titles())
	assert.Contains(t, h.out.String(), "Drag cancelled, nothing moved.")

	require.NoError(t, h.run(t, "milestone drag 1 up"))
	assert.Equal(t, before, h.titles())

	assert.Error(t, h.run(t, "milestone drag 1 sideways"))
}

func TestMilestoneDelete_Confirm(t *testing.T) {
	h := newHarness(t, "n", "y")

	require.NoError(t, h.run(t, "milestone delete 1"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 5)
	assert.Contains(t, h.rl.prompts, `Are you sure you want to delete "Introduction to Bioinformatics"? [y/N] `)
	assert.Contains(t, h.out.String(), "? Cancelled.")

	require.NoError(t, h.run(t, "milestone delete 1"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 4)
	assert.Contains(t, h.out.String(), "Milestone Deleted: The milestone has been removed from your roadmap.")

	require.NoError(t, h.run(t, "milestone delete 1 --yes"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 3)

	// Input ran out: treated as no.
	require.NoError(t, h.run(t, "milestone delete 1"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 3)
}

func TestMilestoneToggle(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "milestone toggle 1"))
	assert.False(t, h.cli.Store.Snapshot().Milestones[0].IsExpanded)
	require.NoError(t, h.run(t, "milestone toggle m1 --id"))
	assert.True(t, h.cli.Store.Snapshot().Milestones[0].IsExpanded)
}

func TestResourceLifecycle(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, `resource add 2 "BLAST advanced" type:video difficulty:advanced tags:BLAST,tools,BLAST url:https://example.org`))
	m := h.cli.Store.Snapshot().Milestones[1]
	require.Len(t, m.Resources, 3)
	added := m.Resources[2]
	assert.Equal(t, "BLAST advanced", added.Title)
	assert.Equal(t, model.TypeVideo, added.Type)
	assert.Equal(t, model.Advanced, added.Difficulty)
	assert.Equal(t, []string{"BLAST", "tools"}, added.Tags)
	assert.Equal(t, "https://example.org", added.URL)
	assert.False(t, added.Completed)

	require.NoError(t, h.run(t, "resource complete 2.3"))
	assert.True(t, h.cli.Store.Snapshot().Milestones[1].Resources[2].Completed)
	assert.Contains(t, h.out.String(), `"BLAST advanced" completed.`)

	require.NoError(t, h.run(t, `resource update 2.3 title:"BLAST deep dive" tags:DNA`))
	updated := h.cli.Store.Snapshot().Milestones[1].Resources[2]
	assert.Equal(t, "BLAST deep dive", updated.Title)
	assert.Equal(t, []string{"DNA"}, updated.Tags)
	assert.Equal(t, model.TypeVideo, updated.Type)

	require.NoError(t, h.run(t, "resource favorite m2/r3 --id"))
	assert.True(t, h.cli.Store.Snapshot().Milestones[1].Resources[0].Favorite)

	require.NoError(t, h.run(t, "resource delete 2.3 --yes"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones[1].Resources, 2)
	assert.Contains(t, h.out.String(), "Resource Deleted: The resource has been removed.")
}

func TestResourceAdd_Defaults(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, `r add 1 "Plain"`))
	res := h.cli.Store.Snapshot().Milestones[0].Resources[2]
	assert.Equal(t, model.TypeArticle, res.Type)
	assert.Equal(t, model.Beginner, res.Difficulty)
	assert.Equal(t, []string{}, res.Tags)
}

func TestResourceErrors(t *testing.T) {
	h := newHarness(t)

	err := h.run(t, "resource add 1 X type:podcast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "podcast")

	assert.Error(t, h.run(t, "resource add 1 X difficulty:expert"))
	assert.Error(t, h.run(t, "resource complete 1"))
	assert.Error(t, h.run(t, "resource complete 1.9"))
	assert.Error(t, h.run(t, "resource complete m1/r9 --id"))
}

func TestFindAndFilter(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "find dna"))
	assert.Contains(t, h.out.String(), "Found 1 matches:")
	assert.Contains(t, h.out.String(), "DNA Sequence Alignment Basics")

	h.out.Reset()
	require.NoError(t, h.run(t, "find zebrafish"))
	assert.Contains(t, h.out.String(), "No resources match your filters.")

	require.NoError(t, h.run(t, "filter clear"))
	h.out.Reset()
	require.NoError(t, h.run(t, "filter tag BLAST"))
	assert.Contains(t, h.out.String(), "Tags: BLAST")

	h.out.Reset()
	require.NoError(t, h.run(t, "resource list"))
	assert.Contains(t, h.out.String(), "BLAST Tool Tutorial")
	assert.NotContains(t, h.out.String(), "What is Bioinformatics?")

	h.out.Reset()
	require.NoError(t, h.run(t, "filter tags 2"))
	assert.Contains(t, h.out.String(), "* BLAST")
	assert.Contains(t, h.out.String(), "  DNA")

	require.NoError(t, h.run(t, "filter type quiz"))
	h.out.Reset()
	require.NoError(t, h.run(t, "resource list"))
	assert.Contains(t, h.out.String(), "No resources match your filters.")

	h.out.Reset()
	require.NoError(t, h.run(t, "filter clear"))
	assert.Contains(t, h.out.String(), "Filters cleared.")
	h.out.Reset()
	require.NoError(t, h.run(t, "filter"))
	assert.Contains(t, h.out.String(), "No filters active.")

	assert.Error(t, h.run(t, "filter type podcast"))
}

func TestExportImport(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "backup.json")

	require.NoError(t, h.run(t, "roadmap export "+path))
	assert.Contains(t, h.out.String(), "Export Successful")
	exported := h.cli.Store.Snapshot()

	require.NoError(t, h.run(t, "milestone delete 1 --yes"))
	require.Len(t, h.cli.Store.Snapshot().Milestones, 4)

	require.NoError(t, h.run(t, "roadmap import "+path))
	assert.Equal(t, exported, h.cli.Store.Snapshot())
	assert.Contains(t, h.out.String(), "Data Imported: Roadmap data has been successfully imported.")
}

func TestExport_DefaultFile(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "roadmap export"))
	_, err := os.Stat(h.cli.Config.Export.File)
	assert.NoError(t, err)
}

func TestImport_MissingFile(t *testing.T) {
	h := newHarness(t)
	before := h.cli.Store.Snapshot()

	err := h.run(t, "roadmap import "+filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, storage.ErrFileRead)
	assert.Contains(t, h.out.String(), "File Read Failed")
	assert.Equal(t, before, h.cli.Store.Snapshot())
}

func TestImport_Paste(t *testing.T) {
	h := newHarness(t, `{"title":"Pasted",`, `"milestones":[]}`, ".")

	require.NoError(t, h.run(t, "roadmap import paste"))
	r := h.cli.Store.Snapshot()
	assert.Equal(t, "Pasted", r.Title)
	assert.Empty(t, r.Milestones)
}

func TestImport_PasteInvalid(t *testing.T) {
	h := newHarness(t, "not json", ".")
	before := h.cli.Store.Snapshot()

	assert.Error(t, h.run(t, "roadmap import paste"))
	assert.Equal(t, before, h.cli.Store.Snapshot())
	assert.Contains(t, h.out.String(), "Import Failed: Could not import data. Please check the JSON format.")
}

func TestRoadmapReset(t *testing.T) {
	h := newHarness(t, "no")
	require.NoError(t, h.run(t, "milestone delete 1 --yes"))

	require.NoError(t, h.run(t, "roadmap reset"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 4)

	require.NoError(t, h.run(t, "roadmap reset --yes"))
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 5)
	assert.Contains(t, h.out.String(), "Roadmap Reset: The default roadmap has been restored.")
}

func TestRoadmapViewAndStats(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "roadmap"))
	assert.Contains(t, h.out.String(), "Bioinformatics Learning Journey")
	assert.Contains(t, h.out.String(), "What is Bioinformatics?")

	h.out.Reset()
	require.NoError(t, h.run(t, "roadmap stats"))
	assert.Contains(t, h.out.String(), "Machine Learning in Bioinformatics")
}

func TestExecuteScript(t *testing.T) {
	h := newHarness(t)
	dir := t.TempDir()

	script := filepath.Join(dir, "setup.txt")
	require.NoError(t, os.WriteFile(script, []byte("# seed\nmilestone add Scripted\n\nresource add 6 \"First step\"\n"), 0644))
	require.NoError(t, h.cli.ExecuteScript(context.Background(), script))

	r := h.cli.Store.Snapshot()
	require.Len(t, r.Milestones, 6)
	assert.Equal(t, "First step", r.Milestones[5].Resources[0].Title)
	assert.Contains(t, h.out.String(), "milestone add Scripted")

	broken := filepath.Join(dir, "broken.txt")
	require.NoError(t, os.WriteFile(broken, []byte("roadmap\nwarp 9\n"), 0644))
	err := h.cli.ExecuteScript(context.Background(), broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.txt:2")

	stop := filepath.Join(dir, "stop.txt")
	require.NoError(t, os.WriteFile(stop, []byte("exit\nmilestone add Never\n"), 0644))
	assert.ErrorIs(t, h.cli.ExecuteScript(context.Background(), stop), ErrExit)
	assert.Len(t, h.cli.Store.Snapshot().Milestones, 6)

	assert.ErrorIs(t, h.cli.ExecuteScript(context.Background(), filepath.Join(dir, "none.txt")), storage.ErrFileRead)
}

func TestLoop(t *testing.T) {
	h := newHarness(t, "milestone add First", "  ", "bogus", "exit", "milestone add Never")

	require.NoError(t, h.cli.Loop(context.Background()))

	assert.Equal(t, "First", h.titles()[5])
	assert.Len(t, h.titles(), 6)
	assert.Contains(t, h.out.String(), "! unknown command: bogus")
	assert.Contains(t, h.rl.prompts, "learnmap @ Bioinformatics Learning Journey > ")
	assert.Equal(t, []string{"milestone add Never"}, h.rl.lines)
}

func TestLoop_EndOfInput(t *testing.T) {
	h := newHarness(t, "milestone add Only")

	require.NoError(t, h.cli.Loop(context.Background()))
	assert.Len(t, h.titles(), 6)
}

func TestLoop_Cancelled(t *testing.T) {
	h := newHarness(t, "milestone add Never")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, h.cli.Loop(ctx))
	assert.Len(t, h.titles(), 5)
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "help"))
	assert.Contains(t, h.out.String(), "milestone: add, update, delete, move, drag, toggle, view\n")
	assert.Contains(t, h.out.String(), "exit:      Exit the program\n")

	h.out.Reset()
	require.NoError(t, h.run(t, "help milestone"))
	assert.Contains(t, h.out.String(), "milestone drag <milestone> <up|down|esc>... [--id]\n    Drag a milestone with arrow keys\n")
	assert.NotContains(t, h.out.String(), "favorite")

	h.out.Reset()
	require.NoError(t, h.run(t, "help resource add"))
	assert.Contains(t, h.out.String(), "resource add <milestone> <title>")
	assert.Contains(t, h.out.String(), "Examples:\n    resource add 2")

	h.out.Reset()
	require.NoError(t, h.run(t, "help find"))
	assert.Contains(t, h.out.String(), "find [query] [--id]\n  Sets the search query")

	assert.Error(t, h.run(t, "help nothing"))
	assert.Error(t, h.run(t, "help milestone fly"))
	assert.Error(t, h.run(t, "help a b c"))
}
