package board

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no list holds a task with the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrIndexOutOfRange means a position fell outside [0, len) of its list.
	ErrIndexOutOfRange = errors.New("position out of range")
	// ErrInvalidTransition means a move did not follow one of the allowed edges.
	ErrInvalidTransition = errors.New("invalid list transition")
	// ErrDuplicateID means the same id was found twice while building a board.
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrAmbiguousID means an id prefix matched more than one task.
	ErrAmbiguousID = errors.New("ambiguous task id")
	// ErrUnknownList is returned by ParseList.
	ErrUnknownList = errors.New("unknown list")
	// ErrUnknownColor is returned by ParseColor and SetColor.
	ErrUnknownColor = errors.New("unknown color")
)

// NotFoundError reports a failed id lookup.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.ID)
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IndexError reports a position outside the bounds of a list.
type IndexError struct {
	List     List
	Position int
	Length   int
}

func (e *IndexError) Error() string {
	if e.Length == 0 {
		return fmt.Sprintf("%s: position %d out of range (list is empty)", e.List, e.Position)
	}
	return fmt.Sprintf("%s: position %d out of range [0, %d)", e.List, e.Position, e.Length)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// TransitionError reports a move between two lists that are not connected.
type TransitionError struct {
	From List
	To   List
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move a task from %s to %s (%s moves to %s)", e.From, e.To, e.From, e.From.Next())
}

// Unwrap returns ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
