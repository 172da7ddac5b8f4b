package snapshot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/kanban-go/internal/board"
)

var (
	// ErrMalformed means stored bytes could not be decoded into a list.
	ErrMalformed = errors.New("malformed snapshot")
	// ErrIO means the storage backend failed to read or write a list.
	ErrIO = errors.New("snapshot i/o failure")
)

// MalformedError reports a decode failure with the JSON path of the
// offending element ("$" for the document itself, "$[2].color" for a
// field).
type MalformedError struct {
	Path string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s at %s: %v", ErrMalformed, e.Path, e.Err)
}

// Unwrap returns ErrMalformed and the underlying cause.
func (e *MalformedError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// IOError reports a storage failure for one list.
type IOError struct {
	List board.List
	Op   string // "read" or "write"
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.List, e.Err)
}

// Unwrap returns ErrIO and the underlying cause.
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}

// SaveError lists every list that could not be written. Lists missing from
// Failures were saved.
type SaveError struct {
	Failures []*IOError
}

func (e *SaveError) Error() string {
	names := make([]string, len(e.Failures))
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.List.String()
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("save failed for %s: %s", strings.Join(names, ", "), strings.Join(msgs, "; "))
}

// Unwrap returns ErrIO and each failure.
func (e *SaveError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrIO)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// Failed reports whether list is among the failures.
func (e *SaveError) Failed(list board.List) bool {
	for _, f := range e.Failures {
		if f.List == list {
			return true
		}
	}
	return false
}
