package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"learnmap/local-app/internal/notify"
	"learnmap/local-app/internal/storage"
)

// RoadmapView handles the 'roadmap view' command
func (c *CLI) RoadmapView(args []string) error {
	_, flags := splitFlags(args)
	c.UI.RoadmapView(c.Store.Snapshot(), flags["id"])
	return nil
}

// RoadmapStats handles the 'roadmap stats' command
func (c *CLI) RoadmapStats(args []string) error {
	c.UI.StatsView(c.Store.Stats(), c.Store.MilestoneProgress())
	return nil
}

// RoadmapExport handles the 'roadmap export' command
func (c *CLI) RoadmapExport(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: roadmap export [filename]")
	}

	filename := c.Config.Export.File
	if len(args) == 1 {
		filename = args[0]
	}

	text, err := c.Store.ExportData()
	if err != nil {
		return fmt.Errorf("failed to export roadmap: %w", err)
	}
	if err := storage.FileExport(filename, text); err != nil {
		return fmt.Errorf("failed to export roadmap: %w", err)
	}

	c.UI.Notify(notify.Notification{
		Title:       "Export Successful",
		Description: fmt.Sprintf("Your roadmap data has been exported to %s.", filename),
	})
	return nil
}

// RoadmapImport handles the 'roadmap import' command
func (c *CLI) RoadmapImport(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: roadmap import <filename|paste>")
	}

	if args[0] == "paste" {
		text, err := c.readPaste()
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			c.UI.Info("Nothing pasted, import cancelled.")
			return nil
		}
		return c.Store.ImportData(text)
	}

	c.UI.Info(fmt.Sprintf("Reading %s...", args[0]))
	select {
	case res := <-storage.ReadFileAsync(ctx, args[0]):
		if res.Err != nil {
			c.UI.Notify(notify.Notification{
				Title:       "File Read Failed",
				Description: "Could not read the file properly.",
				Severity:    notify.Destructive,
			})
			return res.Err
		}
		return c.Store.ImportData(res.Text)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readPaste collects lines until a line holding a single '.' or end of input.
func (c *CLI) readPaste() (string, error) {
	c.UI.Info("Paste the roadmap JSON, then enter a line with a single '.' to finish.")
	c.RL.SetPrompt("")
	defer c.RL.SetPrompt(c.Prompt)

	var lines []string
	for {
		line, err := c.RL.Readline()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// RoadmapReset handles the 'roadmap reset' command
func (c *CLI) RoadmapReset(args []string) error {
	_, flags := splitFlags(args)
	if !flags["yes"] {
		ok, err := c.confirm("Replace the roadmap with the default one? All progress will be lost.")
		if err != nil || !ok {
			return err
		}
	}
	c.Store.Reset()
	return nil
}

// ExecuteRoadmapCommand routes the roadmap command to the appropriate handler
func (c *CLI) ExecuteRoadmapCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.RoadmapView(args)
	}

	operation := args[0]
	switch operation {
	case "view":
		return c.RoadmapView(args[1:])
	case "stats":
		return c.RoadmapStats(args[1:])
	case "export":
		return c.RoadmapExport(args[1:])
	case "import":
		return c.RoadmapImport(ctx, args[1:])
	case "reset":
		return c.RoadmapReset(args[1:])
	case "--id", "-i":
		return c.RoadmapView(args)
	default:
		return fmt.Errorf("unknown roadmap operation: %s", operation)
	}
}
