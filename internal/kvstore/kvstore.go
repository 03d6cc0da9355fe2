package kvstore

import (
	"context"
	"errors"
)

//go:generate mockgen -source=kvstore.go -destination=../mocks/kvstore_mock.go -package=mocks

// Store is the durable key value storage the session keeps its token and cached profiles in.
// Values are opaque strings; callers own the encoding.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key starting with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Keys lists the keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the store. Further calls return ErrClosed.
	Close() error
}

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("kvstore: store is closed")
