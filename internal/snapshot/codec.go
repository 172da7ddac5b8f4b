// Package snapshot converts board lists to and from their stored form.
//
// Each list is stored under its own key ("todo", "doing", "done") as a JSON
// array of {"id", "text", "color"} records in display order, indented with
// two spaces and ending in a newline. Decoding is strict: anything that
// does not match Schema() is rejected with a *MalformedError rather than
// partially loaded.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nibzard/kanban-go/internal/board"
)

// Record is the stored shape of one task.
type Record struct {
	ID    string `json:"id" yaml:"id"`
	Text  string `json:"text" yaml:"text"`
	Color string `json:"color" yaml:"color"`
}

// Key returns the storage key of list.
func Key(list board.List) string {
	return list.String()
}

// ToRecords converts tasks to their stored shape.
func ToRecords(tasks []board.Task) ([]Record, error) {
	records := make([]Record, 0, len(tasks))
	for i, t := range tasks {
		color, err := t.Color.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}
		records = append(records, Record{ID: t.ID.String(), Text: t.Text, Color: string(color)})
	}
	return records, nil
}

// EncodeList serializes one list.
func EncodeList(tasks []board.Task) ([]byte, error) {
	records, err := ToRecords(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeBoard serializes all three lists of b.
func EncodeBoard(b *board.Board) (map[board.List][]byte, error) {
	out := make(map[board.List][]byte, len(board.Lists))
	for _, l := range board.Lists {
		data, err := EncodeList(b.GetList(l))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l, err)
		}
		out[l] = data
	}
	return out, nil
}

// DecodeList parses one stored list. The List field of the returned tasks
// is left at its zero value; the board sets it from containment.
func DecodeList(data []byte) ([]board.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &MalformedError{Path: "$", Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, &MalformedError{Path: "$", Err: errors.New("unexpected content after JSON array")}
	}
	if err := validateSchema(doc); err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &MalformedError{Path: "$", Err: err}
	}

	tasks := make([]board.Task, 0, len(records))
	first := make(map[uuid.UUID]int, len(records))
	for i, r := range records {
		id, err := uuid.Parse(r.ID)
		if err != nil {
			return nil, &MalformedError{Path: indexPath(i, "id"), Err: fmt.Errorf("%q is not a UUID", r.ID)}
		}
		if j, dup := first[id]; dup {
			return nil, &MalformedError{
				Path: indexPath(i, "id"),
				Err:  fmt.Errorf("%w %s (first at %s)", board.ErrDuplicateID, id, indexPath(j, "")),
			}
		}
		first[id] = i
		color, err := board.ParseColor(r.Color)
		if err != nil {
			return nil, &MalformedError{Path: indexPath(i, "color"), Err: err}
		}
		tasks = append(tasks, board.Task{ID: id, Text: r.Text, Color: color})
	}
	return tasks, nil
}
