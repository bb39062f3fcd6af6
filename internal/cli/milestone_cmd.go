package cli

import (
	"fmt"
	"strconv"
	"strings"

	"learnmap/local-app/internal/model"
	"learnmap/local-app/internal/reorder"
)

// milestoneRef resolves a 1-based position, or a milestone id when useID is set.
func (c *CLI) milestoneRef(ref string, useID bool) (model.Milestone, int, error) {
	r := c.Store.Snapshot()
	index := -1
	if useID {
		index = c.Store.MilestoneIndex(ref)
	} else if n, err := strconv.Atoi(ref); err == nil {
		index = n - 1
	}
	if index < 0 || index >= len(r.Milestones) {
		return model.Milestone{}, -1, fmt.Errorf("milestone %s not found", ref)
	}
	return r.Milestones[index], index, nil
}

// MilestoneAdd handles the 'milestone add' command
func (c *CLI) MilestoneAdd(args []string) error {
	rest, fields := splitFields(args, "description")
	if len(rest) < 1 || len(rest) > 2 {
		return fmt.Errorf("usage: milestone add <title> [description]")
	}

	in := model.MilestoneInput{Title: rest[0], Description: fields["description"]}
	if len(rest) == 2 {
		in.Description = rest[1]
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("milestone title cannot be empty")
	}

	c.Store.AddMilestone(in)
	return nil
}

// MilestoneUpdate handles the 'milestone update' command
func (c *CLI) MilestoneUpdate(args []string) error {
	positional, flags := splitFlags(args)
	rest, fields := splitFields(positional, "title", "description")
	if len(rest) != 1 || len(fields) == 0 {
		return fmt.Errorf("usage: milestone update <milestone> [title:<title>] [description:<description>] [--id]")
	}

	m, _, err := c.milestoneRef(rest[0], flags["id"])
	if err != nil {
		return err
	}

	var patch model.MilestonePatch
	if title, ok := fields["title"]; ok {
		patch.Title = &title
	}
	if description, ok := fields["description"]; ok {
		patch.Description = &description
	}
	if c.Store.UpdateMilestone(m.ID, patch) {
		c.UI.Success("Milestone updated.")
	}
	return nil
}

// MilestoneDelete handles the 'milestone delete' command
func (c *CLI) MilestoneDelete(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 1 {
		return fmt.Errorf("usage: milestone delete <milestone> [--id] [--yes]")
	}

	m, _, err := c.milestoneRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	if !flags["yes"] {
		ok, err := c.confirm(fmt.Sprintf("Are you sure you want to delete %q?", m.Title))
		if err != nil || !ok {
			return err
		}
	}

	c.Store.DeleteMilestone(m.ID)
	return nil
}

// MilestoneMove handles the 'milestone move' command
func (c *CLI) MilestoneMove(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 2 {
		return fmt.Errorf("usage: milestone move <milestone> <target> [--id] (target is a position, or with --id the milestone whose place it takes)")
	}

	m, from, err := c.milestoneRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	_, to, err := c.milestoneRef(positional[1], flags["id"])
	if err != nil {
		return err
	}

	if !c.Store.MoveMilestone(from, to) {
		c.UI.Info("Milestone stays in place.")
		return nil
	}
	c.UI.Success(fmt.Sprintf("Moved %q to position %d.", m.Title, to+1))
	return nil
}

// MilestoneDrag handles the 'milestone drag' command. The keys after the
// milestone are replayed as a keyboard drag: up, down, and esc to cancel.
func (c *CLI) MilestoneDrag(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) < 2 {
		return fmt.Errorf("usage: milestone drag <milestone> <up|down|esc>... [--id]")
	}

	m, _, err := c.milestoneRef(positional[0], flags["id"])
	if err != nil {
		return err
	}

	keys := make([]reorder.Key, 0, len(positional)-1)
	for _, k := range positional[1:] {
		switch strings.ToLower(k) {
		case "up", "u":
			keys = append(keys, reorder.KeyArrowUp)
		case "down", "d":
			keys = append(keys, reorder.KeyArrowDown)
		case "esc", "escape":
			keys = append(keys, reorder.KeyEscape)
		default:
			return fmt.Errorf("unknown drag key: %s", k)
		}
	}

	r := c.Store.Snapshot()
	ids := make([]string, len(r.Milestones))
	for i, ms := range r.Milestones {
		ids[i] = ms.ID
	}

	var drag reorder.DragSession
	drag.Start(m.ID, reorder.Rows(ids, 1, 1))
	for _, k := range keys {
		drag.KeyDown(k)
	}

	from, to, ok := drag.End()
	if !ok {
		c.UI.Info("Drag cancelled, nothing moved.")
		return nil
	}
	if c.Store.MoveMilestone(from, to) {
		c.UI.Success(fmt.Sprintf("Moved %q to position %d.", m.Title, to+1))
	}
	return nil
}

// MilestoneToggle handles the 'milestone toggle' command
func (c *CLI) MilestoneToggle(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 1 {
		return fmt.Errorf("usage: milestone toggle <milestone> [--id]")
	}

	m, _, err := c.milestoneRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	c.Store.ToggleMilestoneExpansion(m.ID)
	return nil
}

// MilestoneView handles the 'milestone view' command
func (c *CLI) MilestoneView(args []string) error {
	positional, flags := splitFlags(args)
	if len(positional) != 1 {
		return fmt.Errorf("usage: milestone view <milestone> [--id]")
	}

	m, index, err := c.milestoneRef(positional[0], flags["id"])
	if err != nil {
		return err
	}
	c.UI.MilestoneView(index, m, flags["id"])
	return nil
}

// ExecuteMilestoneCommand routes the milestone command to the appropriate handler
func (c *CLI) ExecuteMilestoneCommand(args []string) error {
	if len(args) == 0 {
		c.UI.RoadmapView(c.Store.Snapshot(), false)
		return nil
	}

	operation := args[0]
	switch operation {
	case "add":
		return c.MilestoneAdd(args[1:])
	case "update":
		return c.MilestoneUpdate(args[1:])
	case "delete", "del":
		return c.MilestoneDelete(args[1:])
	case "move":
		return c.MilestoneMove(args[1:])
	case "drag":
		return c.MilestoneDrag(args[1:])
	case "toggle":
		return c.MilestoneToggle(args[1:])
	case "view":
		return c.MilestoneView(args[1:])
	default:
		return fmt.Errorf("unknown milestone operation: %s", operation)
	}
}
