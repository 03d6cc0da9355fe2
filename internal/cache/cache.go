// Package cache keeps short lived copies of fetched profiles in the key value store.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/Ryan-Har/vibesession/internal/kvstore"
	"github.com/Ryan-Har/vibesession/internal/logutil"
	"github.com/Ryan-Har/vibesession/pkg/models"
)

// KeyPrefix namespaces every profile cache entry in the store.
const KeyPrefix = "user_data_"

// Entry is the stored form of a cached profile. Timestamp is unix milliseconds.
type Entry struct {
	Data      models.User `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Key derives the storage key for token from a hash of the whole token.
func Key(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

// Fingerprint is a short, log safe form of the key for token.
func Fingerprint(token string) string {
	return Key(token)[len(KeyPrefix) : len(KeyPrefix)+12]
}

// Cache reads and writes profile entries with a fixed time to live.
type Cache struct {
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
}

// New returns a cache over store. now may be nil to use the wall clock.
func New(store kvstore.Store, ttl time.Duration, now func() time.Time, logger *slog.Logger) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		store: store,
		ttl:   ttl,
		now:   now,
		log:   logutil.OrDiscard(logger),
	}
}

// Get returns the cached profile for token when one exists and is younger than the ttl.
// Stale and undecodable entries are reported as absent. The returned user carries token.
func (c *Cache) Get(ctx context.Context, token string) (*models.User, bool) {
	key := Key(token)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("profile cache read failed", "fingerprint", Fingerprint(token), "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.log.Warn("discarding undecodable profile cache entry", "fingerprint", Fingerprint(token),
			"err", models.NewTransformationError(err.Error()))
		return nil, false
	}

	age := c.now().Sub(time.UnixMilli(e.Timestamp))
	if age >= c.ttl {
		c.log.Debug("profile cache entry is stale", "fingerprint", Fingerprint(token), "age", age.String())
		return nil, false
	}

	u := e.Data
	u.Token = token
	return &u, true
}

// Put stores u for token, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, token string, u models.User) error {
	raw, err := json.Marshal(Entry{Data: u, Timestamp: c.now().UnixMilli()})
	if err != nil {
		return logutil.LogAndWrapErr(c.log, "failed to encode profile cache entry",
			models.NewTransformationError(err.Error()))
	}
	if err := c.store.Set(ctx, Key(token), string(raw)); err != nil {
		return logutil.DebugAndWrapErr(c.log, "failed to write profile cache entry", err,
			"fingerprint", Fingerprint(token))
	}
	return nil
}

// Clear removes every profile entry and returns how many were removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	n, err := c.store.DeletePrefix(ctx, KeyPrefix)
	if err != nil {
		return 0, logutil.DebugAndWrapErr(c.log, "failed to clear profile cache", err)
	}
	return n, nil
}
