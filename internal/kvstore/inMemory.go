package kvstore

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

type inMemoryStore struct {
	*baseStore
	values map[string]string
	mutex  sync.Mutex
	closed bool
}

// NewInMemory returns a Store backed by a map. Its contents do not survive a restart.
func NewInMemory(logger *slog.Logger) *inMemoryStore {
	return &inMemoryStore{
		baseStore: newBase(logger),
		values:    make(map[string]string),
	}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := s.checkContext(ctx, "get"); err != nil {
		return "", false, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *inMemoryStore) Set(ctx context.Context, key, value string) error {
	if err := s.checkContext(ctx, "set"); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.values[key] = value
	s.log.Debug("stored kv entry", "key", key)
	return nil
}

func (s *inMemoryStore) Delete(ctx context.Context, key string) error {
	if err := s.checkContext(ctx, "delete"); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return ErrClosed
	}
	delete(s.values, key)
	return nil
}

func (s *inMemoryStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	if err := s.checkContext(ctx, "delete prefix"); err != nil {
		return 0, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	removed := 0
	for k := range s.values {
		if hasPrefix(k, prefix) {
			delete(s.values, k)
			removed++
		}
	}
	s.log.Debug("deleted kv entries by prefix", "prefix", prefix, "count", removed)
	return removed, nil
}

func (s *inMemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := s.checkContext(ctx, "keys"); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if hasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *inMemoryStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.closed = true
	s.values = make(map[string]string)
	return nil
}
