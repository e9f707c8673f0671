package media

import (
	"io"
	"sync"
	"time"
)

// Upload states.
const (
	StateUploading = "uploading"
	StateDone      = "done"
	StateFailed    = "failed"
)

// Upload is the observable progress of one in-flight (or finished) upload.
type Upload struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Percent   int       `json:"percent"` // 0-100
	State     string    `json:"state"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tracker keeps upload progress so a progress poll can observe an upload
// started by another request. Terminal entries are pruned by the janitor.
type Tracker struct {
	mu      sync.Mutex
	uploads map[string]*Upload
}

func NewTracker() *Tracker {
	return &Tracker{uploads: make(map[string]*Upload)}
}

func (t *Tracker) start(id, filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.uploads[id] = &Upload{
		ID:        id,
		Filename:  filename,
		State:     StateUploading,
		UpdatedAt: time.Now(),
	}
}

func (t *Tracker) setPercent(id string, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if u, ok := t.uploads[id]; ok {
		u.Percent = percent
		u.UpdatedAt = time.Now()
	}
}

func (t *Tracker) finish(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.uploads[id]
	if !ok {
		return
	}
	u.UpdatedAt = time.Now()
	if err != nil {
		u.State = StateFailed
		u.Error = err.Error()
		return
	}
	u.State = StateDone
	u.Percent = 100
}

// Get returns a copy of the upload's progress.
func (t *Tracker) Get(id string) (Upload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	u, ok := t.uploads[id]
	if !ok {
		return Upload{}, false
	}
	return *u, true
}

// PruneOlderThan drops terminal uploads not touched within maxAge.
// Returns how many were removed.
func (t *Tracker) PruneOlderThan(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	t.mu.Lock()
	defer t.mu.Unlock()
	removed := 0
	for id, u := range t.uploads {
		if u.State != StateUploading && u.UpdatedAt.Before(cutoff) {
			delete(t.uploads, id)
			removed++
		}
	}
	return removed
}

// countingReader maps bytes read from the source to a 0-100 percentage.
type countingReader struct {
	r        io.Reader
	total    int64
	read     int64
	onChange func(percent int)
	last     int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 && c.total > 0 {
		c.read += int64(n)
		percent := int(c.read * 100 / c.total)
		if percent != c.last {
			c.last = percent
			c.onChange(percent)
		}
	}
	return n, err
}
