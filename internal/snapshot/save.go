package snapshot

import (
	"context"
	"fmt"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/storage"
)

// Save encodes every list of b and writes it to store. Nothing is written
// when encoding fails. A list whose write fails keeps its previous
// snapshot; the other lists are still written and a *SaveError names the
// failures.
func Save(ctx context.Context, store storage.Store, b *board.Board) error {
	blobs, err := EncodeBoard(b)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	return Write(ctx, store, blobs)
}

// Write stores already encoded lists. Lists absent from blobs are skipped.
func Write(ctx context.Context, store storage.Store, blobs map[board.List][]byte) error {
	var failures []*IOError
	for _, l := range board.Lists {
		data, ok := blobs[l]
		if !ok {
			continue
		}
		if err := store.Put(ctx, Key(l), data); err != nil {
			failures = append(failures, &IOError{List: l, Op: "write", Err: err})
		}
	}
	if len(failures) > 0 {
		return &SaveError{Failures: failures}
	}
	return nil
}
