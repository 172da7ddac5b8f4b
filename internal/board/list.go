package board

import (
	"fmt"
	"strings"
)

// List selects one of the three task lists.
type List uint8

const (
	Todo List = iota
	Doing
	Done
)

// Lists holds every list in display order.
var Lists = [...]List{Todo, Doing, Done}

var listNames = [...]string{
	Todo:  "todo",
	Doing: "doing",
	Done:  "done",
}

func (l List) String() string {
	if !l.Valid() {
		return fmt.Sprintf("List(%d)", uint8(l))
	}
	return listNames[l]
}

// Valid reports whether l is one of Todo, Doing or Done.
func (l List) Valid() bool {
	return int(l) < len(listNames)
}

// Next returns the list a task moves to from l: todo to doing, doing to
// done, and done back to doing.
func (l List) Next() List {
	switch l {
	case Todo:
		return Doing
	case Doing:
		return Done
	case Done:
		return Doing
	}
	panic(fmt.Sprintf("board: invalid list selector %d", uint8(l)))
}

// CanMove reports whether a task may move directly from one list to another.
func CanMove(from, to List) bool {
	return from.Valid() && to.Valid() && from.Next() == to
}

// ParseList converts a list name ("todo", "doing", "done") to a List.
// Matching ignores case and surrounding whitespace.
func ParseList(s string) (List, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range listNames {
		if n == name {
			return List(i), nil
		}
	}
	return Todo, fmt.Errorf("%w %q (want todo, doing or done)", ErrUnknownList, s)
}

func mustValid(l List) {
	if !l.Valid() {
		panic(fmt.Sprintf("board: invalid list selector %d", uint8(l)))
	}
}
