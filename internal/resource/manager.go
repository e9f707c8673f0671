package resource

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	slug "github.com/goliatone/go-slug"
	"golang.org/x/sync/singleflight"

	"github.com/quillcms/console/internal/catalog"
	"github.com/quillcms/console/internal/domain"
	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/notify"
	"github.com/quillcms/console/internal/session"
	"github.com/quillcms/console/internal/upstream"
)

// Notifier is the user-visible channel mutations report to. Satisfied by
// notify.Center.
type Notifier interface {
	Push(ctx context.Context, level notify.Level, op, message string) notify.Notification
}

// Manager keeps the cached listing of one collection consistent with the
// upstream backend while giving the operator immediate feedback.
//
// Policy, applied uniformly to every mutation that touches the cache before
// the backend confirms it: optimistic with guaranteed rollback. The cache is
// snapshotted, mutated copy-on-write, and the exact snapshot is restored when
// the backend rejects the operation. Rollback restores the full snapshot, not
// a merge; a concurrent unrelated mutation in the failure window is rolled
// back with it.
type Manager struct {
	col      *catalog.Collection
	api      *upstream.Client
	notifier Notifier
	logger   logger.Logger

	mu         sync.Mutex
	items      []*domain.Record
	loadedAt   time.Time
	appliedSeq uint64 // seq of the load currently reflected in items

	issuedSeq atomic.Uint64     // monotonic, one per issued load
	loads     singleflight.Group // collapses concurrent loads
	creates   singleflight.Group // suppresses duplicate in-flight creates
}

func NewManager(col *catalog.Collection, api *upstream.Client, notifier Notifier, log logger.Logger) *Manager {
	return &Manager{
		col:      col,
		api:      api,
		notifier: notifier,
		logger:   log.With(logger.String("collection", col.Name)),
	}
}

// Collection returns the catalog entry this manager serves.
func (m *Manager) Collection() *catalog.Collection { return m.col }

// Items returns the current cached listing. The slice is never mutated in
// place, so callers may read it without holding any lock.
func (m *Manager) Items() []*domain.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items
}

// LoadedAt returns when the cache was last replaced by a successful load.
func (m *Manager) LoadedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadedAt
}

// Load fetches the collection and replaces the whole cached listing.
//
// On failure the cache is left untouched (stale-but-present) and the stale
// listing is returned alongside the error. No retry, no backoff. Concurrent
// loads collapse into one upstream request; a load that loses the race to a
// newer one is discarded instead of overwriting fresher data.
func (m *Manager) Load(ctx context.Context) ([]*domain.Record, error) {
	op := "load " + m.col.Name
	seq := m.issuedSeq.Add(1)

	v, err, _ := m.loads.Do("load", func() (any, error) {
		return m.fetch(ctx, op)
	})
	if err != nil {
		m.logger.Warn("load failed, keeping stale listing", logger.Error(err))
		m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
		return m.Items(), err
	}
	records := v.([]*domain.Record)

	m.mu.Lock()
	defer m.mu.Unlock()
	if seq <= m.appliedSeq {
		// A newer load already landed; this response is stale.
		m.logger.Debug("discarding stale load response",
			logger.Int64("seq", int64(seq)))
		return m.items, nil
	}
	m.appliedSeq = seq
	m.items = records
	m.loadedAt = time.Now()
	return m.items, nil
}

func (m *Manager) fetch(ctx context.Context, op string) ([]*domain.Record, error) {
	query := url.Values{}
	if m.col.ListLimit > 0 {
		query.Set("limit", strconv.Itoa(m.col.ListLimit))
	}
	data, err := m.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   m.col.Path,
		Query:  query,
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}
	return upstream.DecodeRecordList(op, data, m.col.Schema)
}

// Create posts the input and, on success, prepends the server-canonical
// record to the cached listing. On failure nothing local changes.
//
// While a create is in flight, an identical input (double-click, double
// submit) is suppressed and receives the first call's result instead of
// producing a second record.
func (m *Manager) Create(ctx context.Context, input map[string]any) (*domain.Record, error) {
	op := "create " + m.col.Name

	if err := m.normalizeSlug(input); err != nil {
		return nil, err
	}
	key, err := canonicalHash(input)
	if err != nil {
		return nil, fmt.Errorf("hash create input: %w", err)
	}

	// Notifications are pushed inside the shared call so a suppressed
	// duplicate does not produce a second toast for the same record.
	v, err, shared := m.creates.Do(key, func() (any, error) {
		data, err := m.api.Do(ctx, upstream.Request{
			Method: http.MethodPost,
			Path:   m.col.Path,
			Body:   input,
			Token:  session.TokenFromContext(ctx),
		})
		if err != nil {
			m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
			return nil, err
		}
		rec, err := upstream.DecodeRecord(op, data, m.col.Schema)
		if err != nil {
			m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
			return nil, err
		}
		m.prepend(rec)
		m.notifier.Push(ctx, notify.LevelSuccess, op,
			fmt.Sprintf("%s created", rec.Title(m.col.TitleField)))
		return rec, nil
	})
	if shared {
		m.logger.Debug("duplicate in-flight create suppressed")
	}
	if err != nil {
		return nil, err
	}
	return v.(*domain.Record), nil
}

// Update puts the patch and, on success, replaces the matching cached record
// wholesale with the server-canonical one. Never a local merge of patch and
// prior item. On failure nothing local changes.
func (m *Manager) Update(ctx context.Context, id string, patch map[string]any) (*domain.Record, error) {
	op := "update " + m.col.Name

	if err := m.normalizeSlug(patch); err != nil {
		return nil, err
	}

	data, err := m.api.Do(ctx, upstream.Request{
		Method: http.MethodPut,
		Path:   m.col.Path + "/" + url.PathEscape(id),
		Body:   patch,
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
		return nil, err
	}
	rec, err := upstream.DecodeRecord(op, data, m.col.Schema)
	if err != nil {
		m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
		return nil, err
	}

	m.replace(rec)
	m.notifier.Push(ctx, notify.LevelSuccess, op,
		fmt.Sprintf("%s updated", rec.Title(m.col.TitleField)))
	return rec, nil
}

// Delete removes the record from the cache before the backend answers and
// restores the exact prior snapshot (same order, same pointers) when the
// call fails.
func (m *Manager) Delete(ctx context.Context, id string) error {
	op := "delete " + m.col.Name

	m.mu.Lock()
	snapshot := m.items
	title := id
	filtered := make([]*domain.Record, 0, len(snapshot))
	found := false
	for _, rec := range snapshot {
		if rec.ID == id {
			found = true
			title = rec.Title(m.col.TitleField)
			continue
		}
		filtered = append(filtered, rec)
	}
	if found {
		m.items = filtered
	}
	m.mu.Unlock()

	_, err := m.api.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   m.col.Path + "/" + url.PathEscape(id),
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		if found {
			m.mu.Lock()
			m.items = snapshot
			m.mu.Unlock()
		}
		m.notifier.Push(ctx, notify.LevelError, op,
			fmt.Sprintf("failed to delete %s: %s", title, upstream.UserMessage(err)))
		return err
	}

	m.notifier.Push(ctx, notify.LevelSuccess, op, fmt.Sprintf("%s deleted", title))
	return nil
}

// Toggle flips a declared boolean field. Same policy as Delete: the cache is
// flipped immediately and rolled back to the prior snapshot when the backend
// rejects the change. On success the cached record is replaced with the
// server-canonical one.
func (m *Manager) Toggle(ctx context.Context, id, field string, value bool) (*domain.Record, error) {
	op := "toggle " + m.col.Name

	if !m.col.CanToggle(field) {
		return nil, fmt.Errorf("field %q is not toggleable on %s", field, m.col.Name)
	}

	m.mu.Lock()
	snapshot := m.items
	flipped := make([]*domain.Record, len(snapshot))
	found := false
	for i, rec := range snapshot {
		if rec.ID == id {
			found = true
			clone := rec.Clone()
			clone.Attrs[field] = value
			flipped[i] = clone
			continue
		}
		flipped[i] = rec
	}
	if found {
		m.items = flipped
	}
	m.mu.Unlock()

	data, err := m.api.Do(ctx, upstream.Request{
		Method: http.MethodPatch,
		Path:   m.col.Path + "/" + url.PathEscape(id),
		Body:   map[string]any{field: value},
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		if found {
			m.mu.Lock()
			m.items = snapshot
			m.mu.Unlock()
		}
		m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
		return nil, err
	}
	rec, err := upstream.DecodeRecord(op, data, m.col.Schema)
	if err != nil {
		if found {
			m.mu.Lock()
			m.items = snapshot
			m.mu.Unlock()
		}
		m.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
		return nil, err
	}

	m.replace(rec)
	return rec, nil
}

// prepend inserts rec at the head of a fresh copy of the listing.
func (m *Manager) prepend(rec *domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := make([]*domain.Record, 0, len(m.items)+1)
	next = append(next, rec)
	next = append(next, m.items...)
	m.items = next
}

// replace swaps the record with the same ID in a fresh copy of the listing.
// A record the cache has never seen is left alone; the next load picks it up.
func (m *Manager) replace(rec *domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.items {
		if existing.ID != rec.ID {
			continue
		}
		next := make([]*domain.Record, len(m.items))
		copy(next, m.items)
		next[i] = rec
		m.items = next
		return
	}
	m.logger.Debug("updated record not in cache", logger.String("id", rec.ID))
}

// normalizeSlug normalizes the declared slug field in place: an explicit
// value is cleaned up, an empty one is derived from the title field.
func (m *Manager) normalizeSlug(input map[string]any) error {
	if m.col.SlugField == "" || input == nil {
		return nil
	}
	raw, _ := input[m.col.SlugField].(string)
	if raw == "" {
		raw, _ = input[m.col.TitleField].(string)
	}
	if raw == "" {
		return nil
	}
	normalized, err := slug.Normalize(raw)
	if err != nil {
		return fmt.Errorf("normalize slug %q: %w", raw, err)
	}
	input[m.col.SlugField] = normalized
	return nil
}

// canonicalHash keys identical create inputs: JSON-encode (map keys are
// marshalled sorted) and hash.
func canonicalHash(input map[string]any) (string, error) {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
