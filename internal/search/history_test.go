package search

import (
	"context"
	"fmt"
	"testing"
)

func TestHistoryPushMostRecentFirst(t *testing.T) {
	h := NewMemoryHistory()
	ctx := context.Background()

	for _, q := range []string{"alpha", "beta", "gamma"} {
		if err := h.Push(ctx, "user", q); err != nil {
			t.Fatalf("Push(%q) failed: %v", q, err)
		}
	}

	recent, err := h.Recent(ctx, "user")
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"gamma", "beta", "alpha"}
	if len(recent) != len(want) {
		t.Fatalf("Recent returned %d entries, want %d", len(recent), len(want))
	}
	for i := range want {
		if recent[i] != want[i] {
			t.Errorf("recent[%d] = %q, want %q", i, recent[i], want[i])
		}
	}
}

func TestHistoryDedupMovesToFront(t *testing.T) {
	h := NewMemoryHistory()
	ctx := context.Background()

	h.Push(ctx, "user", "alpha")
	h.Push(ctx, "user", "beta")
	h.Push(ctx, "user", "alpha")

	recent, _ := h.Recent(ctx, "user")
	if len(recent) != 2 {
		t.Fatalf("duplicate should not grow the history, got %d entries", len(recent))
	}
	if recent[0] != "alpha" || recent[1] != "beta" {
		t.Errorf("re-pushed query should move to front, got %v", recent)
	}
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	h := NewMemoryHistory()
	ctx := context.Background()

	for i := 0; i < HistoryLimit+3; i++ {
		h.Push(ctx, "user", fmt.Sprintf("query-%02d", i))
	}

	recent, _ := h.Recent(ctx, "user")
	if len(recent) != HistoryLimit {
		t.Fatalf("history holds %d entries, want %d", len(recent), HistoryLimit)
	}
	if recent[0] != "query-12" {
		t.Errorf("newest entry = %q, want query-12", recent[0])
	}
	for _, e := range recent {
		if e == "query-00" || e == "query-01" || e == "query-02" {
			t.Errorf("oldest entries should be evicted, found %q", e)
		}
	}
}

func TestHistoryIgnoresEmptyQuery(t *testing.T) {
	h := NewMemoryHistory()
	ctx := context.Background()

	h.Push(ctx, "user", "")
	recent, _ := h.Recent(ctx, "user")
	if len(recent) != 0 {
		t.Errorf("empty query should not be recorded, got %v", recent)
	}
}

func TestHistoryIsPerUser(t *testing.T) {
	h := NewMemoryHistory()
	ctx := context.Background()

	h.Push(ctx, "alice", "apples")
	h.Push(ctx, "bob", "bananas")

	alice, _ := h.Recent(ctx, "alice")
	if len(alice) != 1 || alice[0] != "apples" {
		t.Errorf("alice's history = %v", alice)
	}

	if err := h.Clear(ctx, "alice"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	alice, _ = h.Recent(ctx, "alice")
	bob, _ := h.Recent(ctx, "bob")
	if len(alice) != 0 {
		t.Errorf("alice's history should be empty after Clear, got %v", alice)
	}
	if len(bob) != 1 {
		t.Errorf("clearing alice should not touch bob, got %v", bob)
	}
}
