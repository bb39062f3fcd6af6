package cli

import (
	"fmt"
	"slices"
	"strings"
)

// CommandHelp is the help entry of one command. Scopes that are a single
// command, like find, leave Operation empty.
type CommandHelp struct {
	Scope     string
	Operation string
	ShortDesc string
	LongDesc  string
	Syntax    string
	Arguments []string
	Options   []string
	Examples  []string
}

// HandleHelp prints the command overview, the commands of one scope, or the
// full entry of one command.
func (c *CLI) HandleHelp(args []string) error {
	switch len(args) {
	case 0:
		c.helpOverview()
		return nil
	case 1:
		return c.helpScope(args[0])
	case 2:
		h, ok := lookupHelp(args[0], args[1])
		if !ok {
			return fmt.Errorf("no help found for %s %s", args[0], args[1])
		}
		c.helpEntry(h)
		return nil
	default:
		return fmt.Errorf("usage: help [scope] [operation]")
	}
}

func lookupHelp(scope, operation string) (CommandHelp, bool) {
	for _, h := range commandHelps {
		if h.Scope == scope && h.Operation == operation {
			return h, true
		}
	}
	return CommandHelp{}, false
}

// helpScopes lists the scopes in table order.
func helpScopes() []string {
	var scopes []string
	for _, h := range commandHelps {
		if !slices.Contains(scopes, h.Scope) {
			scopes = append(scopes, h.Scope)
		}
	}
	return scopes
}

func (c *CLI) helpOverview() {
	c.UI.PrintTemplateLine("{{gray}}Usage: <scope> [operation] [arguments]. Type 'help <scope>' for details.")
	for _, scope := range helpScopes() {
		var ops []string
		var short string
		for _, h := range commandHelps {
			if h.Scope != scope {
				continue
			}
			if h.Operation == "" {
				short = h.ShortDesc
				continue
			}
			ops = append(ops, h.Operation)
		}
		if len(ops) == 0 {
			c.UI.PrintTemplateLine(fmt.Sprintf("{{green}}%-11s{{default}}%s", scope+":", short))
			continue
		}
		c.UI.PrintTemplateLine(fmt.Sprintf("{{green}}%-11s{{default}}%s", scope+":", strings.Join(ops, ", ")))
	}
}

// helpScope prints the usage line of every command in scope. A scope that is a
// single command prints its full entry.
func (c *CLI) helpScope(scope string) error {
	if h, ok := lookupHelp(scope, ""); ok {
		c.helpEntry(h)
		return nil
	}
	found := false
	for _, h := range commandHelps {
		if h.Scope != scope {
			continue
		}
		found = true
		c.UI.PrintTemplateLine("{{blue}}" + h.Syntax)
		c.UI.PrintTemplateLine("    {{gray}}" + h.ShortDesc)
	}
	if !found {
		return fmt.Errorf("no help found for %s", scope)
	}
	return nil
}

func (c *CLI) helpEntry(h CommandHelp) {
	c.UI.PrintTemplateLine("{{blue}}" + h.Syntax)
	c.UI.Message("  %s", h.LongDesc)
	sections := []struct {
		title string
		lines []string
	}{
		{"Arguments", h.Arguments},
		{"Options", h.Options},
		{"Examples", h.Examples},
	}
	for _, sec := range sections {
		if len(sec.lines) == 0 {
			continue
		}
		c.UI.PrintTemplateLine("{{green}}" + sec.title + ":")
		for _, line := range sec.lines {
			c.UI.Message("    %s", line)
		}
	}
}

// commandHelps is grouped by scope; help output follows this order.
var commandHelps = []CommandHelp{
	{
		Scope:     "roadmap",
		Operation: "view",
		ShortDesc: "Show the roadmap",
		LongDesc:  "Displays the roadmap with its milestones. Resources of expanded milestones are listed under them.",
		Syntax:    "roadmap [view] [--id]",
		Options:   []string{"--id: Show milestone and resource ids"},
		Examples:  []string{"roadmap", "roadmap view --id"},
	},
	{
		Scope:     "roadmap",
		Operation: "stats",
		ShortDesc: "Show progress statistics",
		LongDesc:  "Displays completed, total and favorite resource counts, overall and per milestone.",
		Syntax:    "roadmap stats",
		Examples:  []string{"roadmap stats"},
	},
	{
		Scope:     "roadmap",
		Operation: "export",
		ShortDesc: "Export the roadmap to a JSON file",
		LongDesc:  "Writes the whole roadmap as indented JSON. Without a filename the configured export file is used.",
		Syntax:    "roadmap export [filename]",
		Arguments: []string{"filename: (Optional) The file to write"},
		Examples:  []string{"roadmap export", "roadmap export backup.json"},
	},
	{
		Scope:     "roadmap",
		Operation: "import",
		ShortDesc: "Import a roadmap from JSON",
		LongDesc:  "Replaces the roadmap with one read from a file, or pasted into the terminal. Invalid data leaves the roadmap untouched.",
		Syntax:    "roadmap import <filename|paste>",
		Arguments: []string{"filename: The JSON file to read", "paste: Read JSON from the terminal until a line with a single '.'"},
		Examples:  []string{"roadmap import bioinformatics-roadmap.json", "roadmap import paste"},
	},
	{
		Scope:     "roadmap",
		Operation: "reset",
		ShortDesc: "Restore the default roadmap",
		LongDesc:  "Replaces the roadmap with the built-in default after confirmation.",
		Syntax:    "roadmap reset [--yes]",
		Options:   []string{"--yes: Skip the confirmation"},
		Examples:  []string{"roadmap reset"},
	},
	{
		Scope:     "milestone",
		Operation: "add",
		ShortDesc: "Add a milestone",
		LongDesc:  "Appends a new, expanded milestone to the end of the roadmap.",
		Syntax:    "milestone add <title> [description]",
		Arguments: []string{"title: The milestone title", "description: (Optional) A short description"},
		Examples:  []string{"milestone add \"Population Genetics\"", "milestone add RNA-seq \"Expression analysis\""},
	},
	{
		Scope:     "milestone",
		Operation: "update",
		ShortDesc: "Update a milestone",
		LongDesc:  "Changes the title or description of a milestone.",
		Syntax:    "milestone update <milestone> [title:<title>] [description:<description>] [--id]",
		Arguments: []string{"milestone: The milestone position, or id with --id"},
		Examples:  []string{"milestone update 2 title:\"DNA Analysis\"", "milestone update m3 description:\"NGS\" --id"},
	},
	{
		Scope:     "milestone",
		Operation: "delete",
		ShortDesc: "Delete a milestone",
		LongDesc:  "Deletes a milestone and all of its resources after confirmation.",
		Syntax:    "milestone delete <milestone> [--id] [--yes]",
		Arguments: []string{"milestone: The milestone position, or id with --id"},
		Options:   []string{"--yes: Skip the confirmation"},
		Examples:  []string{"milestone delete 3"},
	},
	{
		Scope:     "milestone",
		Operation: "move",
		ShortDesc: "Move a milestone",
		LongDesc:  "Moves a milestone so that it ends up at the target position.",
		Syntax:    "milestone move <milestone> <target> [--id]",
		Arguments: []string{"milestone: The milestone to move", "target: The position, or the milestone whose place it takes"},
		Examples:  []string{"milestone move 1 3", "milestone move m5 m1 --id"},
	},
	{
		Scope:     "milestone",
		Operation: "drag",
		ShortDesc: "Drag a milestone with arrow keys",
		LongDesc:  "Picks up a milestone and replays keyboard moves. 'esc' cancels the drag and nothing moves.",
		Syntax:    "milestone drag <milestone> <up|down|esc>... [--id]",
		Examples:  []string{"milestone drag 4 up up", "milestone drag 1 down esc"},
	},
	{
		Scope:     "milestone",
		Operation: "toggle",
		ShortDesc: "Expand or collapse a milestone",
		LongDesc:  "Switches whether the milestone's resources are shown in the roadmap view.",
		Syntax:    "milestone toggle <milestone> [--id]",
		Examples:  []string{"milestone toggle 2"},
	},
	{
		Scope:     "milestone",
		Operation: "view",
		ShortDesc: "Show a milestone",
		LongDesc:  "Displays a milestone with its description and all resources.",
		Syntax:    "milestone view <milestone> [--id]",
		Examples:  []string{"milestone view 2"},
	},
	{
		Scope:     "resource",
		Operation: "add",
		ShortDesc: "Add a resource",
		LongDesc:  "Adds a resource to a milestone. Type defaults to article and difficulty to beginner.",
		Syntax:    "resource add <milestone> <title> [url:<url>] [type:<type>] [difficulty:<difficulty>] [tags:<a,b>] [description:<text>] [--id]",
		Arguments: []string{"type: article, video, tutorial, dataset, quiz or course", "difficulty: beginner, intermediate or advanced"},
		Examples:  []string{"resource add 2 \"BLAST intro\" type:video tags:BLAST,tools url:https://example.org"},
	},
	{
		Scope:     "resource",
		Operation: "update",
		ShortDesc: "Update a resource",
		LongDesc:  "Changes fields of a resource. Tags are replaced as a whole.",
		Syntax:    "resource update <resource> [title:<title>] [url:<url>] [type:<type>] [difficulty:<difficulty>] [tags:<a,b>] [description:<text>] [--id]",
		Arguments: []string{"resource: <milestone>.<resource> positions, or <milestone id>/<resource id> with --id"},
		Examples:  []string{"resource update 2.1 difficulty:advanced", "resource update m2/r3 tags:DNA --id"},
	},
	{
		Scope:     "resource",
		Operation: "delete",
		ShortDesc: "Delete a resource",
		LongDesc:  "Removes a resource from its milestone after confirmation.",
		Syntax:    "resource delete <resource> [--id] [--yes]",
		Examples:  []string{"resource delete 2.1"},
	},
	{
		Scope:     "resource",
		Operation: "complete",
		ShortDesc: "Toggle completion",
		LongDesc:  "Marks a resource as completed, or as not completed if it already is.",
		Syntax:    "resource complete <resource> [--id]",
		Examples:  []string{"resource complete 1.2"},
	},
	{
		Scope:     "resource",
		Operation: "favorite",
		ShortDesc: "Toggle favorite",
		LongDesc:  "Adds a resource to favorites, or removes it if it already is one.",
		Syntax:    "resource favorite <resource> [--id]",
		Examples:  []string{"resource favorite 1.2"},
	},
	{
		Scope:     "resource",
		Operation: "list",
		ShortDesc: "List resources matching the filter",
		LongDesc:  "Lists the resources of one milestone, or of all milestones, that match the active search and filters.",
		Syntax:    "resource list [milestone] [--id]",
		Examples:  []string{"resource list", "resource list 3"},
	},
	{
		Scope:     "filter",
		Operation: "type",
		ShortDesc: "Toggle a type filter",
		LongDesc:  "Adds the type to the filter, or removes it if already present.",
		Syntax:    "filter type <type>",
		Examples:  []string{"filter type video"},
	},
	{
		Scope:     "filter",
		Operation: "difficulty",
		ShortDesc: "Toggle a difficulty filter",
		LongDesc:  "Adds the difficulty to the filter, or removes it if already present.",
		Syntax:    "filter difficulty <difficulty>",
		Examples:  []string{"filter difficulty beginner"},
	},
	{
		Scope:     "filter",
		Operation: "tag",
		ShortDesc: "Toggle a tag filter",
		LongDesc:  "Adds the tag to the filter, or removes it if already present. Resources match if they carry any selected tag.",
		Syntax:    "filter tag <tag>",
		Examples:  []string{"filter tag DNA"},
	},
	{
		Scope:     "filter",
		Operation: "tags",
		ShortDesc: "List tags in use",
		LongDesc:  "Lists the distinct tags of one milestone or the whole roadmap. Selected tags are marked with '*'.",
		Syntax:    "filter tags [milestone] [--id]",
		Examples:  []string{"filter tags", "filter tags 2"},
	},
	{
		Scope:     "filter",
		Operation: "clear",
		ShortDesc: "Clear search and filters",
		LongDesc:  "Removes the search query and every filter.",
		Syntax:    "filter clear",
		Examples:  []string{"filter clear"},
	},
	{
		Scope:     "find",
		Operation: "",
		ShortDesc: "Search resources",
		LongDesc:  "Sets the search query and lists matching resources across the roadmap. Matching is case-insensitive on title and description. Without a query the search is cleared.",
		Syntax:    "find [query] [--id]",
		Examples:  []string{"find dna", "find \"gene expression\""},
	},
	{
		Scope:     "exit",
		Operation: "",
		ShortDesc: "Exit the program",
		LongDesc:  "Exits learnmap. Changes are saved as they are made.",
		Syntax:    "exit",
		Examples:  []string{"exit", "quit"},
	},
}
