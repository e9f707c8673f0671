package search

import (
	"context"
	"sync"
)

// HistoryLimit is the fixed cap on stored queries per operator.
const HistoryLimit = 10

// History persists executed search queries: most-recent-first, de-duplicated
// by exact query string, capped at HistoryLimit. The Redis store is the real
// implementation; MemoryHistory backs tests and degraded mode.
type History interface {
	Push(ctx context.Context, user, query string) error
	Recent(ctx context.Context, user string) ([]string, error)
	Clear(ctx context.Context, user string) error
}

// MemoryHistory is the in-process History implementation.
type MemoryHistory struct {
	mu sync.Mutex
	m  map[string][]string
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{m: make(map[string][]string)}
}

func (h *MemoryHistory) Push(_ context.Context, user, query string) error {
	if query == "" {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	entries := h.m[user]
	kept := make([]string, 0, len(entries)+1)
	kept = append(kept, query)
	for _, e := range entries {
		if e == query {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > HistoryLimit {
		kept = kept[:HistoryLimit]
	}
	h.m[user] = kept
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, user string) ([]string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := h.m[user]
	out := make([]string, len(entries))
	copy(out, entries)
	return out, nil
}

func (h *MemoryHistory) Clear(_ context.Context, user string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.m, user)
	return nil
}
