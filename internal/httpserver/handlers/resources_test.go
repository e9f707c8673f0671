package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quillcms/console/internal/catalog"
	"github.com/quillcms/console/internal/httpserver/deps"
	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/notify"
	"github.com/quillcms/console/internal/resource"
	"github.com/quillcms/console/internal/upstream"
)

func resourceDeps(t *testing.T, backend http.HandlerFunc) deps.Deps {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	log := logger.New("error", false)
	api := upstream.New(srv.URL, 5*time.Second, log)
	center := notify.NewCenter()

	registry := resource.NewRegistry()
	registry.Rebuild(
		[]*catalog.Collection{{
			Name:         "posts",
			Path:         "/api/posts",
			TitleField:   "title",
			ToggleFields: []string{"published"},
		}},
		func(col *catalog.Collection) *resource.Manager {
			return resource.NewManager(col, api, center, log)
		},
	)
	return deps.Deps{Logger: log, Registry: registry, Notify: center}
}

func resourceRouter(d deps.Deps) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/collections", Collections(d))
	r.Get("/api/r/{collection}", ListResources(d))
	r.Post("/api/r/{collection}", CreateResource(d))
	r.Patch("/api/r/{collection}/{id}/toggle", ToggleResource(d))
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestListResourcesUnknownCollection(t *testing.T) {
	d := resourceDeps(t, func(w http.ResponseWriter, r *http.Request) {})
	router := resourceRouter(d)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/r/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || !strings.Contains(env.Error, "nope") {
		t.Errorf("envelope = %+v", env)
	}
}

func TestListResourcesLoadsColdCache(t *testing.T) {
	d := resourceDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":[{"id":"1","title":"hi"}]}`))
	})
	router := resourceRouter(d)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/r/posts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("envelope = %+v", env)
	}
	items, ok := env.Data.([]any)
	if !ok || len(items) != 1 {
		t.Errorf("data = %v, want one record", env.Data)
	}
}

func TestCreateResourceRejectsBadJSON(t *testing.T) {
	d := resourceDeps(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called for a malformed body")
	})
	router := resourceRouter(d)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/r/posts", strings.NewReader("{broken"))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateResourcePropagatesUpstreamStatus(t *testing.T) {
	d := resourceDeps(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"title already taken"}`, http.StatusConflict)
	})
	router := resourceRouter(d)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/r/posts", strings.NewReader(`{"title":"dup"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want the upstream 409", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "title already taken" {
		t.Errorf("error = %q, want the server message", env.Error)
	}
}

func TestToggleResourceRejectsUndeclaredField(t *testing.T) {
	d := resourceDeps(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend should not be called for an undeclared toggle field")
	})
	router := resourceRouter(d)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/r/posts/1/toggle",
		strings.NewReader(`{"field":"title","value":true}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCollectionsListsCatalog(t *testing.T) {
	d := resourceDeps(t, func(w http.ResponseWriter, r *http.Request) {})
	router := resourceRouter(d)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/collections", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	cols, ok := env.Data.([]any)
	if !ok || len(cols) != 1 {
		t.Fatalf("data = %v, want one collection", env.Data)
	}
	col, _ := cols[0].(map[string]any)
	if col["name"] != "posts" {
		t.Errorf("collection = %v", col)
	}
}
