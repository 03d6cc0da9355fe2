package kvstore

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Ryan-Har/vibesession/internal/logutil"
)

type baseStore struct {
	log *slog.Logger
}

func newBase(logger *slog.Logger) *baseStore {
	return &baseStore{
		log: logutil.OrDiscard(logger),
	}
}

// checkContext returns the context error early so no work is done for a cancelled caller.
func (s *baseStore) checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		s.log.Info("context cancelled during kv operation", "op", op, "error", ctx.Err())
		return ctx.Err()
	default:
		return nil
	}
}

func hasPrefix(key, prefix string) bool {
	return strings.HasPrefix(key, prefix)
}
