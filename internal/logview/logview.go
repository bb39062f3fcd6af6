// Package logview reads the JSON log files written by the application and
// renders them in a compact, optionally colored, form.
package logview

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"learnmap/local-app/internal/log"
)

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
)

// Entry is one decoded log record.
type Entry map[string]interface{}

// Level returns the record's level. Unknown levels read as info.
func (e Entry) Level() log.LogLevel {
	s, _ := e["level"].(string)
	level, _ := log.ParseLevel(s)
	return level
}

func formatTimestamp(timestamp string) string {
	t, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Format("06-01-02 15:04:05.000000")
}

func paint(s, color string, useColor bool) string {
	if !useColor {
		return s
	}
	return color + s + colorReset
}

// Format renders an entry as a header line followed by one indented line per field.
func Format(entry Entry, useColor bool) string {
	timestamp, _ := entry["time"].(string)
	level, _ := entry["level"].(string)
	msg, _ := entry["msg"].(string)

	level = strings.ToUpper(level)
	levelColor := colorWhite
	switch level {
	case "DEBUG":
		levelColor = colorBlue
	case "INFO":
		levelColor = colorGreen
	case "WARN":
		levelColor = colorYellow
	case "ERROR":
		levelColor = colorRed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s",
		paint(formatTimestamp(timestamp), colorMagenta, useColor),
		paint(fmt.Sprintf("%-5s", level), levelColor, useColor),
		msg)

	keys := make([]string, 0, len(entry))
	for key := range entry {
		if key != "time" && key != "level" && key != "msg" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "\n    %s %v", paint(key+":", colorCyan, useColor), entry[key])
	}
	return b.String()
}

// Filter selects which entries are shown.
type Filter struct {
	Query    string
	MinLevel log.LogLevel
}

// Match reports whether entry passes the level threshold and, if a query is
// set, whether its uncolored rendering contains the query case-insensitively.
func (f Filter) Match(entry Entry) bool {
	if entry.Level() < f.MinLevel {
		return false
	}
	if f.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(Format(entry, false)), strings.ToLower(f.Query))
}

// Tailer reads the lines appended to the *.log files of a directory since the
// previous Poll. Files that shrink are read again from the start.
type Tailer struct {
	dir       string
	positions map[string]int64
}

func NewTailer(dir string) *Tailer {
	return &Tailer{dir: dir, positions: make(map[string]int64)}
}

// Poll emits every new complete record. Lines that are not JSON are skipped
// and reported in the returned error along with any file errors.
func (t *Tailer) Poll(emit func(file string, entry Entry)) error {
	files, err := filepath.Glob(filepath.Join(t.dir, "*.log"))
	if err != nil {
		return fmt.Errorf("error reading log directory: %w", err)
	}
	sort.Strings(files)

	var errs []error
	for _, path := range files {
		if err := t.pollFile(path, emit); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tailer) pollFile(path string, emit func(string, Entry)) error {
	name := filepath.Base(path)
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening %s: %w", name, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("error getting file stats for %s: %w", name, err)
	}
	offset := t.positions[path]
	if stat.Size() < offset {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking in %s: %w", name, err)
	}

	var errs []error
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// A partial last line is left for the next poll
			break
		}
		offset += int64(len(line))

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			errs = append(errs, fmt.Errorf("error parsing log entry in %s: %w", name, err))
			continue
		}
		emit(name, entry)
	}
	t.positions[path] = offset
	return errors.Join(errs...)
}

// Follow polls once, then again on every change to a log file in the
// directory, until ctx is done.
func (t *Tailer) Follow(ctx context.Context, emit func(string, Entry), onErr func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(t.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", t.dir, err)
	}

	if err := t.Poll(emit); err != nil {
		onErr(err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(ev.Name) != ".log" || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := t.Poll(emit); err != nil {
				onErr(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			onErr(err)
		}
	}
}
