package redis

import (
	"context"
	"fmt"

	"github.com/quillcms/console/internal/search"
)

// Push records an executed search query: de-duplicated by exact string,
// pushed to the front, trimmed to the history cap. LREM+LPUSH+LTRIM give
// exactly the most-recent-first / no-duplicates / capped semantics.
func (s *Store) Push(ctx context.Context, user, query string) error {
	if query == "" {
		return nil
	}
	key := HistoryKey(user)

	pipe := s.client.Pipeline()
	pipe.LRem(ctx, key, 0, query)
	pipe.LPush(ctx, key, query)
	pipe.LTrim(ctx, key, 0, search.HistoryLimit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record search history: %w", err)
	}
	return nil
}

// Recent returns the stored queries, most recent first.
func (s *Store) Recent(ctx context.Context, user string) ([]string, error) {
	entries, err := s.client.LRange(ctx, HistoryKey(user), 0, search.HistoryLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	return entries, nil
}

// Clear drops the operator's search history.
func (s *Store) Clear(ctx context.Context, user string) error {
	if err := s.client.Del(ctx, HistoryKey(user)).Err(); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}
