package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quillcms/console/internal/session"
)

// Level of a notification. Maps to the toast styling in the UI.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient message for the operator. Nothing here is
// fatal: errors surface as notifications and the console keeps running.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Op        string    `json:"op"`      // operation that produced it, ex: "delete article"
	Message   string    `json:"message"` // server message when present, generic otherwise
	CreatedAt time.Time `json:"created_at"`
}

// feedCap bounds how many undelivered notifications are kept per operator.
const feedCap = 100

// Center is the single user-visible error/success channel: every failed or
// confirmed operation lands here, whatever its cause (network, HTTP status,
// envelope failure).
type Center struct {
	mu    sync.Mutex
	feeds map[string][]Notification
}

func NewCenter() *Center {
	return &Center{feeds: make(map[string][]Notification)}
}

// Push appends a notification to the operator's feed.
func (c *Center) Push(ctx context.Context, level Level, op, message string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Op:        op,
		Message:   message,
		CreatedAt: time.Now(),
	}

	user := session.UserFromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	feed := append(c.feeds[user], n)
	if len(feed) > feedCap {
		feed = feed[len(feed)-feedCap:]
	}
	c.feeds[user] = feed
	return n
}

// Drain returns and clears the operator's pending notifications,
// oldest first.
func (c *Center) Drain(ctx context.Context) []Notification {
	user := session.UserFromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	feed := c.feeds[user]
	delete(c.feeds, user)
	if feed == nil {
		feed = []Notification{}
	}
	return feed
}

// PruneOlderThan drops notifications that sat undelivered longer than maxAge.
// Returns how many were removed.
func (c *Center) PruneOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for user, feed := range c.feeds {
		kept := feed[:0]
		for _, n := range feed {
			if n.CreatedAt.After(cutoff) {
				kept = append(kept, n)
			} else {
				removed++
			}
		}
		if len(kept) == 0 {
			delete(c.feeds, user)
		} else {
			c.feeds[user] = kept
		}
	}
	return removed
}
