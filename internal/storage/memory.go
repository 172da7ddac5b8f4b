package storage

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// MemoryStore is an in-process Store. Contents are lost when the process
// exits. It can be told to fail reads or writes of individual keys.
type MemoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErrs map[string]error
	putErrs map[string]error
	puts    int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:    make(map[string][]byte),
		getErrs: make(map[string]error),
		putErrs: make(map[string]error),
	}
}

// FailGet makes every Get of key return err. A nil err clears it.
func (s *MemoryStore) FailGet(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.getErrs, key)
		return
	}
	s.getErrs[key] = err
}

// FailPut makes every Put of key return err. A nil err clears it.
func (s *MemoryStore) FailPut(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.putErrs, key)
		return
	}
	s.putErrs[key] = err
}

// Puts returns the number of successful Put calls.
func (s *MemoryStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

// Keys returns the stored keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.data))
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.getErrs[key]; err != nil {
		return nil, fmt.Errorf("memory get %s: %w", key, err)
	}
	data, ok := s.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, key)
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.putErrs[key]; err != nil {
		return fmt.Errorf("memory put %s: %w", key, err)
	}
	if data == nil {
		data = []byte{}
	}
	s.data[key] = slices.Clone(data)
	s.puts++
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
