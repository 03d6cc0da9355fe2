package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ryan-Har/vibesession/internal/kvstore"
	"github.com/Ryan-Har/vibesession/pkg/models"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T) (*Cache, kvstore.Store, *fakeClock) {
	t.Helper()
	store := kvstore.NewInMemory(nil)
	clock := &fakeClock{t: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)}
	return New(store, 5*time.Minute, clock.Now, nil), store, clock
}

func TestKey(t *testing.T) {
	k := Key("tok12345678")
	require.True(t, strings.HasPrefix(k, KeyPrefix))
	require.Len(t, k, len(KeyPrefix)+64)
	require.Equal(t, k, Key("tok12345678"))

	// same eight character suffix, different tokens
	require.NotEqual(t, Key("aaaa12345678"), Key("bbbb12345678"))

	require.Len(t, Fingerprint("tok12345678"), 12)
	require.NotContains(t, k, "tok12345678")
}

func TestCache_PutGetWithinTTL(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestCache(t)

	u := models.User{ID: 1, Name: "Ana", Email: "a@x.com", Token: "ignored-on-write"}
	require.NoError(t, c.Put(ctx, "tok12345678", u))

	clock.Advance(4*time.Minute + 59*time.Second)
	got, ok := c.Get(ctx, "tok12345678")
	require.True(t, ok)
	require.Equal(t, "Ana", got.Name)
	require.Equal(t, "tok12345678", got.Token)
}

func TestCache_StaleEntryIsAbsent(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestCache(t)

	require.NoError(t, c.Put(ctx, "tok12345678", models.User{ID: 1}))

	clock.Advance(5 * time.Minute)
	_, ok := c.Get(ctx, "tok12345678")
	require.False(t, ok)
}

func TestCache_TokenIsNotStored(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, "tok12345678", models.User{ID: 1, Token: "tok12345678"}))

	raw, ok, err := store.Get(ctx, Key("tok12345678"))
	require.NoError(t, err)
	require.True(t, ok)
	require.NotContains(t, raw, "tok12345678")
	require.Contains(t, raw, `"timestamp":`)
}

func TestCache_PutOverwrites(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	require.NoError(t, c.Put(ctx, "tok", models.User{Name: "first"}))
	require.NoError(t, c.Put(ctx, "tok", models.User{Name: "second"}))

	keys, err := store.Keys(ctx, KeyPrefix)
	require.NoError(t, err)
	require.Len(t, keys, 1)

	got, ok := c.Get(ctx, "tok")
	require.True(t, ok)
	require.Equal(t, "second", got.Name)
}

func TestCache_UndecodableEntryIsAbsent(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	require.NoError(t, store.Set(ctx, Key("tok"), "not json"))
	_, ok := c.Get(ctx, "tok")
	require.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	require.NoError(t, store.Set(ctx, "token", "tok-a"))
	require.NoError(t, c.Put(ctx, "tok-a", models.User{}))
	require.NoError(t, c.Put(ctx, "tok-b", models.User{}))

	n, err := c.Clear(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	keys, err := store.Keys(ctx, "")
	require.NoError(t, err)
	require.Equal(t, []string{"token"}, keys)
}
