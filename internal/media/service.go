package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/quillcms/console/internal/logger"
	"github.com/quillcms/console/internal/notify"
	"github.com/quillcms/console/internal/session"
	"github.com/quillcms/console/internal/upstream"
)

// OverrideHeader is the header that tells the backend to overwrite an
// existing file instead of resolving the collision itself.
const OverrideHeader = "x-override"

// File is one stored media object.
type File struct {
	Key  string `json:"key"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// Notifier is the user-visible channel upload outcomes report to.
type Notifier interface {
	Push(ctx context.Context, level notify.Level, op, message string) notify.Notification
}

// Service drives the media flow against the backend file endpoints:
// existence check, multipart upload with observable progress, listing,
// deletion, public view URLs.
type Service struct {
	api      *upstream.Client
	tracker  *Tracker
	notifier Notifier
	viewBase string // public object-storage base URL
	logger   logger.Logger
}

func NewService(api *upstream.Client, tracker *Tracker, notifier Notifier, viewBase string, log logger.Logger) *Service {
	return &Service{
		api:      api,
		tracker:  tracker,
		notifier: notifier,
		viewBase: strings.TrimRight(viewBase, "/"),
		logger:   log,
	}
}

// Tracker exposes upload progress for the HTTP surface.
func (s *Service) Tracker() *Tracker { return s.tracker }

// Check asks the backend whether a file with this (already sanitized)
// name exists. The upload must not be sent until the operator has decided
// overwrite vs keep-both when it does.
func (s *Service) Check(ctx context.Context, filename string) (bool, error) {
	q := url.Values{}
	q.Set("filename", filename)
	data, err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/api/files/check",
		Query:  q,
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		return false, err
	}
	var payload struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return false, &upstream.Error{Kind: upstream.KindDecode, Op: "check file", Err: err}
	}
	return payload.Exists, nil
}

// Upload streams one file to the backend as a single multipart POST.
// override sends the x-override header ("overwrite"); without it the backend
// resolves the name collision itself ("keep both"). size drives the progress
// percentage; a failed upload has to be restarted from scratch.
//
// Returns the upload id progress can be polled under.
func (s *Service) Upload(ctx context.Context, filename string, size int64, src io.Reader, override bool) (string, error) {
	op := "upload " + filename
	id := uuid.NewString()
	s.tracker.start(id, filename)

	counted := &countingReader{
		r:     src,
		total: size,
		last:  -1,
		onChange: func(percent int) {
			s.tracker.setPercent(id, percent)
		},
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, counted); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(form.Close())
	}()

	header := http.Header{}
	header.Set("Content-Type", form.FormDataContentType())
	if override {
		header.Set(OverrideHeader, "true")
	}

	_, err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodPost,
		Path:   "/api/files/upload",
		Raw:    pr,
		Header: header,
		Token:  session.TokenFromContext(ctx),
	})
	s.tracker.finish(id, err)
	if err != nil {
		s.logger.Warn("upload failed",
			logger.String("filename", filename),
			logger.Error(err))
		s.notifier.Push(ctx, notify.LevelError, op, upstream.UserMessage(err))
		return id, err
	}

	s.logger.Info("upload complete",
		logger.String("filename", filename),
		logger.Int64("size", size),
		logger.Bool("override", override))
	s.notifier.Push(ctx, notify.LevelSuccess, op, fmt.Sprintf("%s uploaded", filename))
	return id, nil
}

// List fetches the stored files and fills in their public view URLs.
func (s *Service) List(ctx context.Context) ([]File, error) {
	data, err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodGet,
		Path:   "/api/files",
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		return nil, err
	}
	var files []File
	if err := json.Unmarshal(data, &files); err != nil {
		return nil, &upstream.Error{Kind: upstream.KindDecode, Op: "list files", Err: err}
	}
	for i := range files {
		files[i].URL = s.ViewURL(files[i].Key)
	}
	return files, nil
}

// Delete removes a stored file; the backend expects the key in a JSON body.
func (s *Service) Delete(ctx context.Context, key string) error {
	op := "delete file"
	_, err := s.api.Do(ctx, upstream.Request{
		Method: http.MethodDelete,
		Path:   "/api/files",
		Body:   map[string]string{"key": key},
		Token:  session.TokenFromContext(ctx),
	})
	if err != nil {
		s.notifier.Push(ctx, notify.LevelError, op,
			fmt.Sprintf("failed to delete %s: %s", key, upstream.UserMessage(err)))
		return err
	}
	s.notifier.Push(ctx, notify.LevelSuccess, op, fmt.Sprintf("%s deleted", key))
	return nil
}

// ViewURL joins the public storage base URL with the object key.
func (s *Service) ViewURL(key string) string {
	return s.viewBase + "/" + strings.TrimLeft(key, "/")
}
