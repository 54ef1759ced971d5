package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lexandro/authortree/gitquery"
)

type fakeQuerier struct {
	mu       sync.Mutex
	files    []gitquery.AuthoredFile
	content  map[string]string
	email    string
	err      error
	opened   []string
	lastList gitquery.ListOptions
}

func (f *fakeQuerier) ListAuthoredFiles(ctx context.Context, req gitquery.ListOptions) ([]gitquery.AuthoredFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastList = req
	return f.files, f.err
}

func (f *fakeQuerier) GetFileContent(ctx context.Context, repoPath, filePath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	content, ok := f.content[filePath]
	if !ok {
		return "", &gitquery.Error{Kind: gitquery.ReadFailed, Message: "cannot read " + filePath}
	}
	return content, nil
}

func (f *fakeQuerier) OpenInEditor(ctx context.Context, filePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, filePath)
	return nil
}

func (f *fakeQuerier) ConfiguredAuthorEmail(ctx context.Context) (string, error) {
	return f.email, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() Options {
	return Options{AllowedOrigin: "http://localhost:8080", MaxResults: 50, ContextLines: 2}
}

func newTestAPI(t *testing.T, q *fakeQuerier) (*API, http.Handler) {
	t.Helper()
	api := NewAPI(q, testLogger(), testOptions())
	return api, api.Handler()
}

func do(t *testing.T, h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
