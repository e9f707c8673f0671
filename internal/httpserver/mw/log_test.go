package mw

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/session"
)

// infoCapture records the fields of every Info line.
type infoCapture struct {
	logger.Logger
	mu    sync.Mutex
	lines [][]zap.Field
}

func (l *infoCapture) Info(msg string, fields ...zap.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fields)
}

type emptyTokenStore struct{}

func (emptyTokenStore) SaveToken(ctx context.Context, user, token string) error { return nil }
func (emptyTokenStore) GetToken(ctx context.Context, user string) (string, error) {
	return "", nil
}
func (emptyTokenStore) DeleteToken(ctx context.Context, user string) error { return nil }

func fieldValue(fields []zap.Field, key string) string {
	for _, f := range fields {
		if f.Key == key {
			return f.String
		}
	}
	return ""
}

func TestLogRecordsResolvedOperator(t *testing.T) {
	capture := &infoCapture{Logger: logger.New("error", false)}
	sessions := session.NewManager(emptyTokenStore{}, logger.New("error", false))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	// Same order as the server stack: Session outermost, so the request
	// line sees the resolved operator instead of the default slot.
	h := Session(sessions)(Log(capture)(inner))

	req := httptest.NewRequest(http.MethodGet, "/api/collections", nil)
	req.Header.Set(OperatorHeader, "alice")
	h.ServeHTTP(httptest.NewRecorder(), req)

	capture.mu.Lock()
	defer capture.mu.Unlock()
	if len(capture.lines) != 1 {
		t.Fatalf("logged %d request lines, want 1", len(capture.lines))
	}
	if got := fieldValue(capture.lines[0], "operator"); got != "alice" {
		t.Errorf("operator logged as %q, want %q", got, "alice")
	}
}
