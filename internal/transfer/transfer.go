// Package transfer converts roadmaps to and from their JSON exchange form.
// Import is validated explicitly and either yields a complete roadmap or a typed failure.
package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"learnmap/local-app/internal/model"
)

// Reasons an import can be rejected. Match them with errors.Is.
var (
	ErrInvalidJSON       = errors.New("payload is not a JSON object")
	ErrMissingTitle      = errors.New("roadmap title is missing or empty")
	ErrMissingMilestones = errors.New("roadmap milestones array is missing")
	ErrMalformedEntry    = errors.New("milestone or resource entry has the wrong shape")
	ErrInvalidEntry      = errors.New("milestone or resource entry failed validation")
)

// ImportError describes why a payload was rejected.
type ImportError struct {
	Reason error
	Detail string
	Err    error
}

func (e *ImportError) Error() string {
	var b strings.Builder
	b.WriteString("import rejected: ")
	b.WriteString(e.Reason.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func reject(reason error, detail string, err error) error {
	return &ImportError{Reason: reason, Detail: detail, Err: err}
}

// Options tunes how deep Parse validates.
type Options struct {
	// Strict also checks ids, enum values and id uniqueness below the top level.
	Strict bool
}

// Export renders the roadmap as indented JSON with a stable key order.
func Export(r model.Roadmap) (string, error) {
	out := r.Clone()
	out.Normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return "", fmt.Errorf("failed to marshal roadmap: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Parse validates text and decodes it into a roadmap.
func Parse(text string, opts Options) (model.Roadmap, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return model.Roadmap{}, reject(ErrInvalidJSON, "", err)
	}
	// The typed decode matches keys case-insensitively, so a "Title" next to
	// "title" would replace the value checked here.
	for key := range top {
		if strings.EqualFold(key, "title") && key != "title" {
			return model.Roadmap{}, reject(ErrMissingTitle, fmt.Sprintf("unexpected key %q", key), nil)
		}
		if strings.EqualFold(key, "milestones") && key != "milestones" {
			return model.Roadmap{}, reject(ErrMissingMilestones, fmt.Sprintf("unexpected key %q", key), nil)
		}
	}

	rawTitle, ok := top["title"]
	if !ok {
		return model.Roadmap{}, reject(ErrMissingTitle, "", nil)
	}
	var title string
	if err := json.Unmarshal(rawTitle, &title); err != nil {
		return model.Roadmap{}, reject(ErrMissingTitle, "title is not a string", err)
	}
	if title == "" {
		return model.Roadmap{}, reject(ErrMissingTitle, "", nil)
	}

	rawMilestones, ok := top["milestones"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(rawMilestones), []byte("[")) {
		return model.Roadmap{}, reject(ErrMissingMilestones, "", nil)
	}

	var r model.Roadmap
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return model.Roadmap{}, reject(ErrMalformedEntry, describeDecodeError(err), err)
	}
	if r.Title == "" {
		return model.Roadmap{}, reject(ErrMissingTitle, "", nil)
	}
	r.Normalize()

	if opts.Strict {
		if err := validateRoadmap(r); err != nil {
			return model.Roadmap{}, reject(ErrInvalidEntry, err.Error(), err)
		}
	}

	return r, nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("field %s holds a %s", typeErr.Field, typeErr.Value)
	}
	return err.Error()
}
