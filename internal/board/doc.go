// Package board models a three-list kanban board.
//
// A Board owns three ordered lists of tasks:
//
//	todo  -> doing -> done
//	           ^        |
//	           +--------+
//
// Every task lives in exactly one list. Tasks enter the board through
// CreateTask (always at the tail of the chosen list) and leave it only
// through DeleteTask. Between lists a task moves only along the three edges
// shown above: todo to doing, doing to done, and done back to doing. Nothing
// ever returns to todo.
//
// # Positions
//
// Positions are 0-based. Every operation that takes a position checks it
// against the current list length before touching any state, so a failed
// call leaves the board exactly as it was.
//
// # Snapshots for callers
//
// GetList returns copies. Callers render from the copies and express every
// change through Board methods; a Board never hands out pointers into its
// own lists.
//
// # Errors
//
// Failures are reported with sentinel errors (ErrNotFound,
// ErrIndexOutOfRange, ErrInvalidTransition, ...) wrapped in types that carry
// context (NotFoundError, IndexError, TransitionError). Use errors.Is and
// errors.As.
//
// Passing a List outside Todo, Doing and Done is a programming error and
// panics. Text input is converted with ParseList at the boundary.
package board
