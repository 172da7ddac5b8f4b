package board

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// MinPrefixLen is the shortest id prefix ResolveID accepts.
const MinPrefixLen = 4

// Board is the three-list aggregate. It takes no locks; callers that share
// a Board between goroutines must serialize access (see internal/session).
type Board struct {
	lists [len(listNames)][]*Task
	// issued holds every id this board has seen, so a deleted id is never
	// handed out again.
	issued map[uuid.UUID]struct{}
	newID  func() uuid.UUID
}

// Option configures a Board.
type Option func(*Board)

// WithIDGenerator replaces uuid.New as the source of task ids.
func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(b *Board) {
		if gen != nil {
			b.newID = gen
		}
	}
}

// New returns an empty board.
func New(opts ...Option) *Board {
	b := &Board{
		issued: make(map[uuid.UUID]struct{}),
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromLists builds a board from previously decoded lists. The List field of
// each task is ignored and re-derived from the slice that holds it.
func FromLists(todo, doing, done []Task, opts ...Option) (*Board, error) {
	b := New(opts...)
	seen := make(map[uuid.UUID]List)
	for i, tasks := range [...][]Task{todo, doing, done} {
		list := Lists[i]
		seq := make([]*Task, 0, len(tasks))
		for pos, t := range tasks {
			if prev, dup := seen[t.ID]; dup {
				return nil, fmt.Errorf("%w %s at %s[%d] (already in %s)", ErrDuplicateID, t.ID, list, pos, prev)
			}
			if !t.Color.Valid() {
				return nil, fmt.Errorf("%s[%d]: %w %d", list, pos, ErrUnknownColor, uint8(t.Color))
			}
			seen[t.ID] = list
			b.issued[t.ID] = struct{}{}
			task := t
			task.List = list
			seq = append(seq, &task)
		}
		b.lists[list] = seq
	}
	return b, nil
}

// CreateTask appends a new yellow task with empty text to the tail of list
// and returns its id.
func (b *Board) CreateTask(list List) uuid.UUID {
	mustValid(list)
	id := b.freshID()
	b.lists[list] = append(b.lists[list], newTask(id, list))
	return id
}

func (b *Board) freshID() uuid.UUID {
	for {
		id := b.newID()
		if id == uuid.Nil {
			continue
		}
		if _, used := b.issued[id]; used {
			continue
		}
		b.issued[id] = struct{}{}
		return id
	}
}

// GetList returns a copy of list in order.
func (b *Board) GetList(list List) []Task {
	mustValid(list)
	out := make([]Task, len(b.lists[list]))
	for i, t := range b.lists[list] {
		out[i] = *t
	}
	return out
}

// Len returns the number of tasks in list.
func (b *Board) Len(list List) int {
	mustValid(list)
	return len(b.lists[list])
}

// Counts returns the length of every list.
func (b *Board) Counts() map[List]int {
	counts := make(map[List]int, len(Lists))
	for _, l := range Lists {
		counts[l] = len(b.lists[l])
	}
	return counts
}

// Task looks up a task by id and returns a copy along with the list holding
// it and its position there.
func (b *Board) Task(id uuid.UUID) (Task, List, int, error) {
	t, list, pos, ok := b.locate(id)
	if !ok {
		return Task{}, Todo, -1, &NotFoundError{ID: id.String()}
	}
	return *t, list, pos, nil
}

func (b *Board) locate(id uuid.UUID) (*Task, List, int, bool) {
	for _, l := range Lists {
		for i, t := range b.lists[l] {
			if t.ID == id {
				return t, l, i, true
			}
		}
	}
	return nil, Todo, -1, false
}

// EditText replaces the text of the task with the given id.
func (b *Board) EditText(id uuid.UUID, text string) error {
	t, _, _, ok := b.locate(id)
	if !ok {
		return &NotFoundError{ID: id.String()}
	}
	t.SetText(text)
	return nil
}

// SetColor replaces the color of the task with the given id.
func (b *Board) SetColor(id uuid.UUID, c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w %d", ErrUnknownColor, uint8(c))
	}
	t, _, _, ok := b.locate(id)
	if !ok {
		return &NotFoundError{ID: id.String()}
	}
	return t.SetColor(c)
}

// DeleteTask removes the task at position in list and returns it.
func (b *Board) DeleteTask(list List, position int) (Task, error) {
	mustValid(list)
	if err := b.checkIndex(list, position); err != nil {
		return Task{}, err
	}
	removed := b.lists[list][position]
	b.lists[list] = slices.Delete(b.lists[list], position, position+1)
	return *removed, nil
}

// ReorderWithinList moves the task at from to index to within the same
// list. Both positions must be valid indexes of the current list.
func (b *Board) ReorderWithinList(list List, from, to int) error {
	mustValid(list)
	if err := b.checkIndex(list, from); err != nil {
		return err
	}
	if err := b.checkIndex(list, to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	seq := b.lists[list]
	t := seq[from]
	seq = slices.Delete(seq, from, from+1)
	b.lists[list] = slices.Insert(seq, to, t)
	return nil
}

// MoveToList removes the task at position in source and appends it to the
// tail of destination. Only todo->doing, doing->done and done->doing are
// allowed.
func (b *Board) MoveToList(source List, position int, destination List) error {
	mustValid(source)
	mustValid(destination)
	if !CanMove(source, destination) {
		return &TransitionError{From: source, To: destination}
	}
	if err := b.checkIndex(source, position); err != nil {
		return err
	}
	t := b.lists[source][position]
	b.lists[source] = slices.Delete(b.lists[source], position, position+1)
	t.List = destination
	b.lists[destination] = append(b.lists[destination], t)
	return nil
}

// Advance moves the task at position in source to source.Next() and
// returns the destination.
func (b *Board) Advance(source List, position int) (List, error) {
	mustValid(source)
	dst := source.Next()
	if err := b.MoveToList(source, position, dst); err != nil {
		return source, err
	}
	return dst, nil
}

// ResolveID finds the task whose id equals ref or starts with it. ref may
// be a full id or a hex prefix of at least MinPrefixLen characters; case
// and hyphens are ignored.
func (b *Board) ResolveID(ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		if _, _, _, ok := b.locate(id); ok {
			return id, nil
		}
		return uuid.Nil, &NotFoundError{ID: ref}
	}

	prefix := strings.ToLower(strings.ReplaceAll(ref, "-", ""))
	if len(prefix) < MinPrefixLen {
		return uuid.Nil, fmt.Errorf("id prefix %q is shorter than %d characters: %w", ref, MinPrefixLen, ErrAmbiguousID)
	}

	var (
		match   uuid.UUID
		matches int
	)
	for _, l := range Lists {
		for _, t := range b.lists[l] {
			hex := strings.ReplaceAll(t.ID.String(), "-", "")
			if strings.HasPrefix(hex, prefix) {
				match = t.ID
				matches++
			}
		}
	}
	switch matches {
	case 0:
		return uuid.Nil, &NotFoundError{ID: ref}
	case 1:
		return match, nil
	default:
		return uuid.Nil, fmt.Errorf("id prefix %q matches %d tasks: %w", ref, matches, ErrAmbiguousID)
	}
}

func (b *Board) checkIndex(list List, position int) error {
	n := len(b.lists[list])
	if position < 0 || position >= n {
		return &IndexError{List: list, Position: position, Length: n}
	}
	return nil
}
