package snapshot

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/kanban-go/internal/board"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is a read-only view of a whole board in one file.
type Document struct {
	Todo  []Record `json:"todo" yaml:"todo"`
	Doing []Record `json:"doing" yaml:"doing"`
	Done  []Record `json:"done" yaml:"done"`
}

// NewDocument copies the three lists of b.
func NewDocument(b *board.Board) (*Document, error) {
	var doc Document
	for _, l := range board.Lists {
		records, err := ToRecords(b.GetList(l))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", l, err)
		}
		switch l {
		case board.Todo:
			doc.Todo = records
		case board.Doing:
			doc.Doing = records
		case board.Done:
			doc.Done = records
		}
	}
	return &doc, nil
}

// Encode renders the document as JSON or YAML.
func (d *Document) Encode(format string) ([]byte, error) {
	switch format {
	case "", FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}
