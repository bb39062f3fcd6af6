// Package ui renders the roadmap, messages and notifications to a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"learnmap/local-app/internal/notify"
)

// Layout is the listing format chosen from the terminal width.
type Layout int

const (
	Wide Layout = iota
	Compact
)

// compactWidth is the first width at which the wide layout is used.
const compactWidth = 80

// LayoutFor returns Compact for terminals narrower than 80 columns.
func LayoutFor(width int) Layout {
	if width < compactWidth {
		return Compact
	}
	return Wide
}

func (l Layout) String() string {
	if l == Compact {
		return "compact"
	}
	return "wide"
}

// TerminalWidth reports the width of f, or 80 when f is not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return compactWidth
	}
	return width
}

// ColorEnabled resolves a color mode of "always", "never" or "auto" against f.
func ColorEnabled(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(f.Fd()))
	}
}

type UI struct {
	mu       sync.Mutex
	writer   io.Writer
	useColor bool
	layout   Layout
}

func NewUI(w io.Writer, useColor bool, layout Layout) *UI {
	return &UI{writer: w, useColor: useColor, layout: layout}
}

// Layout returns the current listing format.
func (u *UI) Layout() Layout { return u.layout }

// SetLayout switches the listing format.
func (u *UI) SetLayout(l Layout) { u.layout = l }

func (u *UI) colorize(message string, color Color) string {
	if !u.useColor || color == ColorDefault {
		return message
	}
	return fmt.Sprintf("%s%s%s", color, message, ColorDefault)
}

func (u *UI) Print(message string) {
	fmt.Fprint(u.writer, message)
}

func (u *UI) Printf(format string, args ...interface{}) {
	fmt.Fprintf(u.writer, format, args...)
}

func (u *UI) Println(message string) {
	fmt.Fprintln(u.writer, message)
}

// Message prints a formatted line, adding the newline if missing.
func (u *UI) Message(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	u.Print(msg)
}

func (u *UI) PrintColored(message string, color Color) {
	fmt.Fprint(u.writer, u.colorize(message, color))
}

func (u *UI) PrintlnColored(message string, color Color) {
	fmt.Fprintln(u.writer, u.colorize(message, color))
}

func (u *UI) Error(message string) {
	u.Println(u.colorize("!", ColorRed) + " " + u.colorize(message, ColorLightOrange))
}

func (u *UI) Success(message string) {
	u.PrintlnColored(message, ColorLightGreen)
}

func (u *UI) Warning(message string) {
	u.Println(u.colorize("?", ColorLightRed) + " " + u.colorize(message, ColorLightYellow))
}

func (u *UI) Info(message string) {
	u.PrintlnColored(message, ColorGray)
}

// Notify renders a store notification. Destructive ones are shown as errors.
func (u *UI) Notify(n notify.Notification) {
	u.mu.Lock()
	defer u.mu.Unlock()

	text := n.Title
	if n.Description != "" {
		text += ": " + n.Description
	}
	if n.Severity == notify.Destructive {
		u.Error(text)
		return
	}
	u.Success(text)
}

func (u *UI) GetPromptString(title string) string {
	var promptBuilder strings.Builder
	promptBuilder.WriteString(u.colorize("learnmap", ColorLightBlue))
	if title != "" {
		promptBuilder.WriteString(u.colorize(" @ ", ColorWhite))
		promptBuilder.WriteString(u.colorize(title, ColorLightPurple))
	}
	promptBuilder.WriteString(u.colorize(" > ", ColorGreen))
	return promptBuilder.String()
}

func (u *UI) PrintCommand(command string) {
	u.PrintlnColored(command, ColorWhite)
}
