// Package cli provides the interactive shell for working with a roadmap.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/chzyer/readline"

	"learnmap/local-app/internal/data"
	"learnmap/local-app/internal/filter"
	"learnmap/local-app/internal/log"
	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/storage"
	"learnmap/local-app/internal/ui"
)

// ErrExit is returned when the user asks to leave the shell.
var ErrExit = errors.New("exit requested")

// LineReader is the line editor the shell reads from. *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	Close() error
}

type CLI struct {
	Store  *data.Store
	UI     *ui.UI
	RL     LineReader
	Config *model.Config
	Prompt string

	criteria filter.Criteria
	logger   *log.Logger
}

func NewCLI(store *data.Store, u *ui.UI, rl LineReader, cfg *model.Config, logger *log.Logger) *CLI {
	return &CLI{
		Store:  store,
		UI:     u,
		RL:     rl,
		Config: cfg,
		logger: logger,
	}
}

// NewReadline creates the line editor with history and command completion.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("roadmap",
		readline.PcItem("view"),
		readline.PcItem("stats"),
		readline.PcItem("export"),
		readline.PcItem("import", readline.PcItem("paste")),
		readline.PcItem("reset"),
	),
	readline.PcItem("milestone",
		readline.PcItem("add"),
		readline.PcItem("update"),
		readline.PcItem("delete"),
		readline.PcItem("move"),
		readline.PcItem("drag"),
		readline.PcItem("toggle"),
		readline.PcItem("view"),
	),
	readline.PcItem("resource",
		readline.PcItem("add"),
		readline.PcItem("update"),
		readline.PcItem("delete"),
		readline.PcItem("complete"),
		readline.PcItem("favorite"),
		readline.PcItem("list"),
	),
	readline.PcItem("filter",
		readline.PcItem("type"),
		readline.PcItem("difficulty"),
		readline.PcItem("tag"),
		readline.PcItem("tags"),
		readline.PcItem("clear"),
	),
	readline.PcItem("find"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

// UpdatePrompt refreshes the prompt with the current roadmap title.
func (c *CLI) UpdatePrompt() {
	c.Prompt = c.UI.GetPromptString(c.Store.Snapshot().Title)
	c.RL.SetPrompt(c.Prompt)
}

// Run reads and executes a single line.
func (c *CLI) Run(ctx context.Context) error {
	line, err := c.RL.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	c.logger.Command(ctx, line)
	return c.ExecuteCommand(ctx, c.ParseArgs(line))
}

// Loop runs the shell until the user exits, input ends or ctx is cancelled.
func (c *CLI) Loop(ctx context.Context) error {
	c.UpdatePrompt()
	for {
		if ctx.Err() != nil {
			return nil
		}
		err := c.Run(ctx)
		switch {
		case err == nil:
		case errors.Is(err, readline.ErrInterrupt):
			c.UI.Info("Use 'exit' or 'quit' to exit the program.")
		case errors.Is(err, io.EOF), errors.Is(err, ErrExit):
			return nil
		case errors.Is(err, context.Canceled):
			return nil
		default:
			c.logger.Warn(ctx, "Command failed", log.Fields{"error": err})
			c.UI.Error(err.Error())
		}
		c.UpdatePrompt()
	}
}

// ParseArgs splits a command line on spaces, keeping quoted sections together.
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
			quoted = true
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 || quoted {
					args = append(args, currentArg.String())
					currentArg.Reset()
					quoted = false
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 || quoted {
		args = append(args, currentArg.String())
	}

	return args
}

// ExecuteCommand routes a parsed command line to its scope handler.
func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	switch strings.ToLower(args[0]) {
	case "roadmap":
		return c.ExecuteRoadmapCommand(ctx, args[1:])
	case "milestone", "m":
		return c.ExecuteMilestoneCommand(args[1:])
	case "resource", "r":
		return c.ExecuteResourceCommand(args[1:])
	case "filter":
		return c.ExecuteFilterCommand(args[1:])
	case "find":
		return c.ResourceFind(args[1:])
	case "help":
		return c.HandleHelp(args[1:])
	case "exit", "quit":
		return c.SystemExit()
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// ExecuteScript runs every non-empty, non-comment line of a script file.
func (c *CLI) ExecuteScript(ctx context.Context, filename string) error {
	res := <-storage.ReadFileAsync(ctx, filename)
	if res.Err != nil {
		return res.Err
	}

	for n, line := range strings.Split(res.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c.UI.PrintCommand(line)
		if err := c.ExecuteCommand(ctx, c.ParseArgs(line)); err != nil {
			if errors.Is(err, ErrExit) {
				return err
			}
			return fmt.Errorf("%s:%d: %w", filename, n+1, err)
		}
	}
	return nil
}

// SystemExit handles the 'exit' and 'quit' commands
func (c *CLI) SystemExit() error {
	c.UI.Println("Exiting...")
	return ErrExit
}

// confirm asks a yes/no question. Anything but y or yes is a no.
func (c *CLI) confirm(question string) (bool, error) {
	c.RL.SetPrompt(question + " [y/N] ")
	defer c.RL.SetPrompt(c.Prompt)

	answer, err := c.RL.Readline()
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		c.UI.Warning("Cancelled.")
		return false, nil
	}
}

// splitFlags separates --flags from positional arguments.
func splitFlags(args []string) ([]string, map[string]bool) {
	var positional []string
	flags := make(map[string]bool)
	for _, arg := range args {
		switch arg {
		case "--id", "-i":
			flags["id"] = true
		case "--yes", "-y":
			flags["yes"] = true
		default:
			positional = append(positional, arg)
		}
	}
	return positional, flags
}

// splitFields separates label:value arguments with a known label from the rest.
func splitFields(args []string, known ...string) ([]string, map[string]string) {
	var rest []string
	fields := make(map[string]string)
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 2)
		if len(parts) == 2 && slices.Contains(known, strings.ToLower(parts[0])) {
			fields[strings.ToLower(parts[0])] = parts[1]
			continue
		}
		rest = append(rest, arg)
	}
	return rest, fields
}
