// Package session guards a Board and its Store behind a single mutex so a
// UI event loop and a background autosave can share them.
package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/kanban-go/internal/board"
	"github.com/nibzard/kanban-go/internal/snapshot"
	"github.com/nibzard/kanban-go/internal/storage"
)

// Session owns one board for the lifetime of a program run.
type Session struct {
	store  storage.Store
	logger *log.Logger

	mu    sync.Mutex
	board *board.Board
	// gen counts successful updates; saved is the gen last written.
	gen   uint64
	saved uint64
	// held marks lists that failed to load. Save leaves their stored
	// snapshot alone until they gain a task or are released.
	held [len(board.Lists)]bool

	// saveMu serializes writers so an older encoding never lands after a
	// newer one.
	saveMu sync.Mutex

	stopMu   sync.Mutex
	stopSave func()
}

// Open loads the board from store. The report says which lists were
// loaded, missing, or unusable.
func Open(ctx context.Context, store storage.Store, logger *log.Logger, opts ...snapshot.LoadOption) (*Session, snapshot.Report) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	opts = append([]snapshot.LoadOption{snapshot.WithLogger(logger)}, opts...)
	b, report := snapshot.Load(ctx, store, opts...)
	s := &Session{store: store, logger: logger, board: b}
	for _, lr := range report.Lists {
		s.held[lr.List] = lr.Status == snapshot.StatusFailed
	}
	return s, report
}

// Held returns the lists whose stored snapshot Save currently leaves
// untouched because they failed to load.
func (s *Session) Held() []board.List {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []board.List
	for _, l := range board.Lists {
		if s.held[l] {
			out = append(out, l)
		}
	}
	return out
}

// Release lets the next Save overwrite the stored snapshot of lists that
// failed to load.
func (s *Session) Release(lists ...board.List) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lists {
		s.held[l] = false
	}
}

// skipHeld drops held lists from blobs. A held list that has gained tasks
// is released and written. Callers hold s.mu.
func (s *Session) skipHeld(blobs map[board.List][]byte) {
	for _, l := range board.Lists {
		if !s.held[l] {
			continue
		}
		if s.board.Len(l) > 0 {
			s.held[l] = false
			s.logger.Warn("overwriting list that failed to load", "list", l)
			continue
		}
		delete(blobs, l)
	}
}

// Update runs fn with exclusive access to the board. The session becomes
// dirty when fn returns nil. fn must leave the board unchanged when it
// returns an error, which holds for any single Board method.
func (s *Session) Update(fn func(*board.Board) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.board); err != nil {
		return err
	}
	s.gen++
	return nil
}

// View runs fn with exclusive access to the board. fn must not mutate it.
func (s *Session) View(fn func(*board.Board)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.board)
}

// Dirty reports whether there are updates that have not been saved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != s.saved
}

// Save writes the current board. The board is encoded under the session
// lock and written without it, so updates are not blocked by slow storage.
// Lists that failed to load are not written while they are held.
func (s *Session) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	gen := s.gen
	blobs, err := snapshot.EncodeBoard(s.board)
	if err == nil {
		s.skipHeld(blobs)
	}
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	if err := snapshot.Write(ctx, s.store, blobs); err != nil {
		return err
	}

	s.mu.Lock()
	if gen > s.saved {
		s.saved = gen
	}
	s.mu.Unlock()
	return nil
}

// Autosave saves dirty state every interval until ctx ends or the returned
// stop func is called. stop waits for an in-flight save to finish. A failed
// save is logged and retried on the next tick. A non-positive interval
// disables autosave.
func (s *Session) Autosave(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.Dirty() {
					continue
				}
				if err := s.Save(ctx); err != nil {
					s.logger.Warn("autosave failed", "err", err)
					continue
				}
				s.logger.Debug("autosaved")
			}
		}
	}()

	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}

	s.stopMu.Lock()
	prev := s.stopSave
	s.stopSave = stop
	s.stopMu.Unlock()
	if prev != nil {
		prev()
	}
	return stop
}

// Close stops autosave and saves any unsaved updates. It does not close
// the store.
func (s *Session) Close(ctx context.Context) error {
	s.stopMu.Lock()
	stop := s.stopSave
	s.stopSave = nil
	s.stopMu.Unlock()
	if stop != nil {
		stop()
	}

	if !s.Dirty() {
		return nil
	}
	if err := s.Save(ctx); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	return nil
}
