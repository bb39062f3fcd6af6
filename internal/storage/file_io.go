package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrFileRead marks failures reading an import file.
var ErrFileRead = errors.New("could not read the file")

// FileReadResult is the single outcome of ReadFileAsync.
type FileReadResult struct {
	Text string
	Err  error
}

// FileExport writes exported roadmap text to filename.
func FileExport(filename, text string) error {
	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filename, []byte(text+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadFileAsync reads filename off the calling goroutine. Exactly one result
// is delivered on the returned channel, which is then closed.
func ReadFileAsync(ctx context.Context, filename string) <-chan FileReadResult {
	out := make(chan FileReadResult, 1)
	go func() {
		defer close(out)
		text, err := readFile(ctx, filename)
		out <- FileReadResult{Text: text, Err: err}
	}()
	return out
}

// ReadAllAsync is ReadFileAsync for an already open reader such as stdin.
func ReadAllAsync(ctx context.Context, r io.Reader) <-chan FileReadResult {
	out := make(chan FileReadResult, 1)
	go func() {
		defer close(out)
		data, err := io.ReadAll(r)
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			out <- FileReadResult{Err: fmt.Errorf("%w: %w", ErrFileRead, err)}
			return
		}
		out <- FileReadResult{Text: string(data)}
	}()
	return out
}

func readFile(ctx context.Context, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	return string(data), nil
}
