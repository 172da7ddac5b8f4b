package board

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Color is the tint of a task card.
type Color uint8

const (
	Yellow Color = iota
	Pink
	Blue
	Green
)

// Colors holds the palette in picker order.
var Colors = [...]Color{Yellow, Pink, Blue, Green}

var colorNames = [...]string{
	Yellow: "yellow",
	Pink:   "pink",
	Blue:   "blue",
	Green:  "green",
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Color(%d)", uint8(c))
	}
	return colorNames[c]
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	return int(c) < len(colorNames)
}

// Next returns the following palette color, wrapping from green to yellow.
func (c Color) Next() Color {
	return Color((int(c) + 1) % len(colorNames))
}

// ParseColor converts a color name to a Color. Matching ignores case and
// surrounding whitespace.
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range colorNames {
		if n == name {
			return Color(i), nil
		}
	}
	return Yellow, fmt.Errorf("%w %q (want yellow, pink, blue or green)", ErrUnknownColor, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownColor, uint8(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Task is a single card on the board.
//
// List mirrors the list that holds the task. The board keeps it in sync;
// it is never persisted and is re-derived whenever a board is built.
type Task struct {
	ID    uuid.UUID
	Text  string
	Color Color
	List  List
}

func newTask(id uuid.UUID, list List) *Task {
	return &Task{ID: id, Color: Yellow, List: list}
}

// SetText replaces the card text.
func (t *Task) SetText(text string) {
	t.Text = text
}

// SetColor replaces the card color.
func (t *Task) SetColor(c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w %d", ErrUnknownColor, uint8(c))
	}
	t.Color = c
	return nil
}

// Short returns the first eight hex digits of the id, for display.
func (t Task) Short() string {
	return t.ID.String()[:8]
}
