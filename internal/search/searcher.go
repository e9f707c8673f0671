package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/session"
	"github.com/quillcms/console/internal/upstream"
)

// Result is one search hit as returned by the backend search endpoint.
type Result struct {
	ID    string `json:"id"`
	Kind  string `json:"kind,omitempty"` // collection the hit belongs to
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// Response carries the two lists the search surface renders. They come from
// one upstream call here, so they always reflect the same query.
type Response struct {
	Query       string   `json:"query"`
	Results     []Result `json:"results"`
	Suggestions []string `json:"suggestions"`
}

// searchPayload is the upstream search data shape.
type searchPayload struct {
	Results     []Result `json:"results"`
	Suggestions []string `json:"suggestions"`
}

// Searcher runs remote searches with a debounce window for typed input and a
// monotonic sequence guard so an older response resolving late can never
// overwrite the results of a newer query.
type Searcher struct {
	api      *upstream.Client
	history  History
	palettes *Palettes
	debounce *Debouncer
	limit    int
	logger   logger.Logger

	seq atomic.Uint64

	mu      sync.Mutex
	applied uint64
	latest  Response
}

func NewSearcher(api *upstream.Client, history History, palettes *Palettes, debounce *Debouncer, limit int, log logger.Logger) *Searcher {
	return &Searcher{
		api:      api,
		history:  history,
		palettes: palettes,
		debounce: debounce,
		limit:    limit,
		logger:   log,
	}
}

// Type feeds one keystroke's worth of query. Nothing is sent until the quiet
// window elapses without another keystroke; then the final query executes and
// its results land in the operator's palette.
func (s *Searcher) Type(ctx context.Context, query string) {
	// The debounced call outlives the triggering request, so detach from its
	// cancellation while keeping the session values.
	detached := context.WithoutCancel(ctx)
	s.debounce.Trigger(func() {
		if _, err := s.Search(detached, query); err != nil {
			s.logger.Warn("debounced search failed",
				logger.String("query", query),
				logger.Error(err))
		}
	})
}

// Search executes the query immediately: one upstream call for results and
// suggestions, history recorded on success, palette updated unless a newer
// query already landed.
func (s *Searcher) Search(ctx context.Context, query string) (Response, error) {
	seq := s.seq.Add(1)

	resp, err := s.fetch(ctx, query)
	if err != nil {
		return Response{Query: query}, err
	}

	user := session.UserFromContext(ctx)
	if err := s.history.Push(ctx, user, query); err != nil {
		s.logger.Warn("failed to record search history",
			logger.String("query", query),
			logger.Error(err))
	}
	resp.Suggestions = s.blendSuggestions(ctx, user, query, resp.Suggestions)

	s.mu.Lock()
	if seq > s.applied {
		s.applied = seq
		s.latest = resp
		s.mu.Unlock()
		s.palettes.For(user).SetResults(resp.Results)
	} else {
		s.mu.Unlock()
		s.logger.Debug("discarding stale search response",
			logger.String("query", query))
	}
	return resp, nil
}

// Latest returns the most recent response that won the sequence race.
func (s *Searcher) Latest() Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

func (s *Searcher) fetch(ctx context.Context, query string) (Response, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(s.limit))

	data, err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/api/search",
		Query:  q,
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		return Response{}, err
	}

	var payload searchPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Response{}, &upstream.Error{Kind: upstream.KindDecode, Op: "search", Err: err}
	}
	resp := Response{Query: query, Results: payload.Results, Suggestions: payload.Suggestions}
	if resp.Results == nil {
		resp.Results = []Result{}
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	return resp, nil
}

// blendSuggestions puts matching history entries ahead of the backend's
// suggestions, de-duplicated, capped at the search limit.
func (s *Searcher) blendSuggestions(ctx context.Context, user, query string, remote []string) []string {
	entries, err := s.history.Recent(ctx, user)
	if err != nil {
		s.logger.Debug("failed to load history for suggestions", logger.Error(err))
		return remote
	}

	blended := make([]string, 0, s.limit)
	seen := make(map[string]bool)
	push := func(v string) {
		if v == "" || v == query || seen[v] || len(blended) >= s.limit {
			return
		}
		seen[v] = true
		blended = append(blended, v)
	}
	for _, e := range rankHistory(entries, query) {
		push(e)
	}
	for _, r := range remote {
		push(r)
	}
	return blended
}
