package media

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker()
	tr.start("u1", "photo.jpg")

	u, ok := tr.Get("u1")
	if !ok {
		t.Fatal("started upload not found")
	}
	if u.State != StateUploading || u.Percent != 0 {
		t.Errorf("fresh upload: state=%s percent=%d", u.State, u.Percent)
	}

	tr.setPercent("u1", 42)
	if u, _ := tr.Get("u1"); u.Percent != 42 {
		t.Errorf("percent = %d, want 42", u.Percent)
	}

	tr.finish("u1", nil)
	u, _ = tr.Get("u1")
	if u.State != StateDone || u.Percent != 100 {
		t.Errorf("finished upload: state=%s percent=%d", u.State, u.Percent)
	}
}

func TestTrackerFinishWithError(t *testing.T) {
	tr := NewTracker()
	tr.start("u1", "photo.jpg")
	tr.setPercent("u1", 60)
	tr.finish("u1", errors.New("connection reset"))

	u, _ := tr.Get("u1")
	if u.State != StateFailed {
		t.Errorf("state = %s, want failed", u.State)
	}
	if u.Error != "connection reset" {
		t.Errorf("error = %q", u.Error)
	}
	if u.Percent != 60 {
		t.Errorf("a failed upload keeps its last percent, got %d", u.Percent)
	}
}

func TestTrackerClampsPercent(t *testing.T) {
	tr := NewTracker()
	tr.start("u1", "f")
	tr.setPercent("u1", 150)
	if u, _ := tr.Get("u1"); u.Percent != 100 {
		t.Errorf("percent = %d, want clamped to 100", u.Percent)
	}
	tr.setPercent("u1", -5)
	if u, _ := tr.Get("u1"); u.Percent != 0 {
		t.Errorf("percent = %d, want clamped to 0", u.Percent)
	}
}

func TestTrackerPruneKeepsActiveUploads(t *testing.T) {
	tr := NewTracker()
	tr.start("active", "a")
	tr.start("done", "b")
	tr.finish("done", nil)

	// Backdate both entries past the cutoff.
	tr.mu.Lock()
	for _, u := range tr.uploads {
		u.UpdatedAt = time.Now().Add(-2 * time.Hour)
	}
	tr.mu.Unlock()

	removed := tr.PruneOlderThan(time.Hour)
	if removed != 1 {
		t.Errorf("pruned %d uploads, want 1", removed)
	}
	if _, ok := tr.Get("active"); !ok {
		t.Error("in-flight upload must survive pruning")
	}
	if _, ok := tr.Get("done"); ok {
		t.Error("stale terminal upload should be pruned")
	}
}

func TestCountingReaderReportsPercent(t *testing.T) {
	var reported []int
	src := strings.NewReader("0123456789")
	c := &countingReader{
		r:        src,
		total:    10,
		last:     -1,
		onChange: func(p int) { reported = append(reported, p) },
	}

	buf := make([]byte, 5)
	c.Read(buf)
	c.Read(buf)

	if len(reported) != 2 || reported[0] != 50 || reported[1] != 100 {
		t.Errorf("reported percents = %v, want [50 100]", reported)
	}
}
