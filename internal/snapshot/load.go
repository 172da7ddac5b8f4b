package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/storage"
)

// Status is the outcome of loading one list.
type Status int

const (
	// StatusLoaded means the list was read and decoded.
	StatusLoaded Status = iota
	// StatusMissing means nothing was stored under the list's key yet.
	StatusMissing
	// StatusFailed means the list could not be read or decoded and was
	// started empty.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusMissing:
		return "missing"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// ListReport describes how one list was loaded.
type ListReport struct {
	List   board.List
	Status Status
	Count  int
	Err    error
}

// Report describes how a whole board was loaded.
type Report struct {
	Lists [len(board.Lists)]ListReport
}

// List returns the report for one list.
func (r Report) List(l board.List) ListReport {
	return r.Lists[l]
}

// OK reports whether no list failed.
func (r Report) OK() bool {
	for _, lr := range r.Lists {
		if lr.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Err joins the errors of every failed list, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, lr := range r.Lists {
		if lr.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", lr.List, lr.Err))
		}
	}
	return errors.Join(errs...)
}

type loadOptions struct {
	logger    *log.Logger
	boardOpts []board.Option
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithLogger sets the logger that receives a warning for each failed list.
func WithLogger(logger *log.Logger) LoadOption {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBoardOptions passes options through to the board being built.
func WithBoardOptions(opts ...board.Option) LoadOption {
	return func(o *loadOptions) {
		o.boardOpts = append(o.boardOpts, opts...)
	}
}

// Load reads the three lists from store and builds a board. It never fails
// as a whole: a list that is absent starts empty, and a list that cannot be
// read or decoded starts empty with its error recorded in the report. A
// list repeating an id already loaded from an earlier list (in todo, doing,
// done order) counts as malformed.
func Load(ctx context.Context, store storage.Store, opts ...LoadOption) (*board.Board, Report) {
	o := loadOptions{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		report Report
		lists  [len(board.Lists)][]board.Task
		owner  = make(map[uuid.UUID]board.List)
	)
	for _, l := range board.Lists {
		lr := ListReport{List: l}
		tasks, err := loadList(ctx, store, l)
		if err == nil {
			err = checkOwnership(tasks, owner, l)
		}

		switch {
		case errors.Is(err, storage.ErrNotExist):
			lr.Status = StatusMissing
		case err != nil:
			lr.Status = StatusFailed
			lr.Err = err
			o.logger.Warn("list snapshot unusable, starting it empty", "list", l, "err", err)
		default:
			for _, t := range tasks {
				owner[t.ID] = l
			}
			lists[l] = tasks
			lr.Status = StatusLoaded
			lr.Count = len(tasks)
		}
		report.Lists[l] = lr
	}

	b, err := board.FromLists(lists[board.Todo], lists[board.Doing], lists[board.Done], o.boardOpts...)
	if err != nil {
		// Ids were checked above, so this only happens on a codec bug.
		o.logger.Error("building board from snapshots", "err", err)
		return board.New(o.boardOpts...), report
	}
	return b, report
}

func loadList(ctx context.Context, store storage.Store, l board.List) ([]board.Task, error) {
	data, err := store.Get(ctx, Key(l))
	if errors.Is(err, storage.ErrNotExist) {
		return nil, err
	}
	if err != nil {
		return nil, &IOError{List: l, Op: "read", Err: err}
	}
	return DecodeList(data)
}

func checkOwnership(tasks []board.Task, owner map[uuid.UUID]board.List, l board.List) error {
	for i, t := range tasks {
		if prev, taken := owner[t.ID]; taken {
			return &MalformedError{
				Path: indexPath(i, "id"),
				Err:  fmt.Errorf("%w %s (already in %s)", board.ErrDuplicateID, t.ID, prev),
			}
		}
	}
	return nil
}
