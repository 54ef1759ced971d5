package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/tree"
)

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", body, err)
	}
	return v
}

func sampleFiles() []gitquery.AuthoredFile {
	return []gitquery.AuthoredFile{
		{Path: "src/a.ts", Author: "dev@example.com", LastModified: "1/2/2024"},
		{Path: "src/b/c.ts", Author: "dev@example.com", LastModified: "1/3/2024"},
	}
}

func Test_API_Files(t *testing.T) {
	q := &fakeQuerier{files: sampleFiles()}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodPost, "/api/git/files", `{"repoPath":"/repo","authorEmail":"dev@example.com","branch":"main"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	files := decode[[]map[string]any](t, rec.Body.Bytes())
	if len(files) != 2 || files[0]["path"] != "src/a.ts" || files[0]["lastModified"] != "1/2/2024" {
		t.Errorf("unexpected body: %s", rec.Body)
	}
	if q.lastList.Branch != "main" {
		t.Errorf("branch not forwarded: %+v", q.lastList)
	}
}

func Test_API_Files_EmptyListIsArray(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{})

	rec := do(t, h, http.MethodPost, "/api/git/files", `{"repoPath":"/repo","authorEmail":"dev@example.com"}`)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected [], got %s", rec.Body)
	}
}

func Test_API_Files_MissingFields(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{})

	rec := do(t, h, http.MethodPost, "/api/git/files", `{"repoPath":"/repo"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[errorBody](t, rec.Body.Bytes())
	if body.Kind != "InvalidInput" || body.Error == "" {
		t.Errorf("unexpected error body: %+v", body)
	}
}

func Test_API_Files_MalformedJSON(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{})

	rec := do(t, h, http.MethodPost, "/api/git/files", `{"repoPath":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func Test_API_ErrorKindsMapToStatus(t *testing.T) {
	cases := map[gitquery.Kind]int{
		gitquery.InvalidPath:     http.StatusBadRequest,
		gitquery.NotARepository:  http.StatusBadRequest,
		gitquery.ToolUnavailable: http.StatusInternalServerError,
		gitquery.QueryFailed:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		q := &fakeQuerier{err: &gitquery.Error{Kind: kind, Message: "boom", Detail: "stderr text"}}
		_, h := newTestAPI(t, q)

		rec := do(t, h, http.MethodPost, "/api/git/files", `{"repoPath":"/repo","authorEmail":"a@b.c"}`)
		if rec.Code != status {
			t.Errorf("%s: status = %d, want %d", kind, rec.Code, status)
		}
		body := decode[errorBody](t, rec.Body.Bytes())
		if body.Kind != string(kind) || body.Detail != "stderr text" {
			t.Errorf("%s: unexpected body %+v", kind, body)
		}
	}
}

func Test_API_Content(t *testing.T) {
	q := &fakeQuerier{content: map[string]string{"src/a.ts": "export const a = 1\n"}}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodGet, "/api/git/content?repoPath=/repo&filePath=src/a.ts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[contentResponse](t, rec.Body.Bytes())
	if body.Content != "export const a = 1\n" || body.Language != "typescript" || body.Binary {
		t.Errorf("unexpected body: %+v", body)
	}

	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("expected ETag header")
	}
	again := do(t, h, http.MethodGet, "/api/git/content?repoPath=/repo&filePath=src/a.ts", "", "If-None-Match", etag)
	if again.Code != http.StatusNotModified || again.Body.Len() != 0 {
		t.Errorf("expected empty 304, got %d %q", again.Code, again.Body)
	}
}

func Test_API_Content_Binary(t *testing.T) {
	q := &fakeQuerier{content: map[string]string{"logo.png": "\x89PNG\x00\x01"}}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodGet, "/api/git/content?repoPath=/repo&filePath=logo.png", "")
	body := decode[contentResponse](t, rec.Body.Bytes())
	if !body.Binary {
		t.Errorf("expected binary flag, got %+v", body)
	}
	// JSON encoding replaces the invalid UTF-8 byte; the rest passes through.
	if body.Content != "\uFFFDPNG\x00\x01" {
		t.Errorf("expected content passed through as text, got %q", body.Content)
	}
}

func Test_API_Content_MissingParams(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{})

	rec := do(t, h, http.MethodGet, "/api/git/content?repoPath=/repo", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func Test_API_Content_ReadFailed(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{content: map[string]string{}})

	rec := do(t, h, http.MethodGet, "/api/git/content?repoPath=/repo&filePath=gone.txt", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func Test_API_Editor(t *testing.T) {
	q := &fakeQuerier{}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodPost, "/api/editor", `{"filePath":"src/a.ts","repoPath":"/repo"}`)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body)
	}
	if len(q.opened) != 1 || q.opened[0] != "/repo/src/a.ts" {
		t.Errorf("opened = %v", q.opened)
	}

	rec = do(t, h, http.MethodPost, "/api/editor", `{"filePath":"/abs/file.go","repoPath":"/repo"}`)
	if rec.Code != http.StatusOK || q.opened[1] != "/abs/file.go" {
		t.Errorf("absolute path should be used as is, opened = %v", q.opened)
	}
}

func Test_API_Editor_LaunchFailed(t *testing.T) {
	q := &fakeQuerier{err: &gitquery.Error{Kind: gitquery.LaunchFailed, Message: "editor exited"}}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodPost, "/api/editor", `{"filePath":"/abs/file.go"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func Test_API_UserEmail(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{email: "dev@example.com"})

	rec := do(t, h, http.MethodGet, "/api/git/user-email", "")
	body := decode[map[string]string](t, rec.Body.Bytes())
	if rec.Code != http.StatusOK || body["email"] != "dev@example.com" {
		t.Errorf("unexpected response %d %s", rec.Code, rec.Body)
	}
}

func Test_API_Tree(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{files: sampleFiles()})

	rec := do(t, h, http.MethodPost, "/api/git/tree", `{"repoPath":"/repo","authorEmail":"dev@example.com","sortBy":"date"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[struct {
		Total int          `json:"total"`
		Shown int          `json:"shown"`
		Nodes []*tree.Node `json:"nodes"`
	}](t, rec.Body.Bytes())
	if body.Total != 2 || body.Shown != 2 || len(body.Nodes) != 1 {
		t.Fatalf("unexpected body: %s", rec.Body)
	}
	src := body.Nodes[0]
	if src.Metadata.DescendantFileCount != 2 || src.Children[0].Name != "b" {
		t.Errorf("expected b first under date sort: %s", rec.Body)
	}
}

func Test_API_Tree_FilterAndBadSort(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{files: sampleFiles()})

	rec := do(t, h, http.MethodPost, "/api/git/tree", `{"repoPath":"/repo","authorEmail":"e","query":"C.TS"}`)
	if !strings.Contains(rec.Body.String(), `"shown":1`) {
		t.Errorf("expected one shown file: %s", rec.Body)
	}

	rec = do(t, h, http.MethodPost, "/api/git/tree", `{"repoPath":"/repo","authorEmail":"e","sortBy":"size"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func Test_API_Search(t *testing.T) {
	q := &fakeQuerier{
		files:   []gitquery.AuthoredFile{{Path: "a.go"}, {Path: "b.go"}},
		content: map[string]string{"a.go": "func handleRequest() {}", "b.go": "func other() {}"},
	}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodPost, "/api/git/search", `{"repoPath":"/repo","authorEmail":"e","query":"handleRequest"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[searchResponse](t, rec.Body.Bytes())
	if body.TotalMatches != 1 || len(body.Results) != 1 || body.Results[0].RelativePath != "a.go" {
		t.Errorf("unexpected body: %s", rec.Body)
	}

	rec = do(t, h, http.MethodPost, "/api/git/search", `{"repoPath":"/repo","authorEmail":"e"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing query: status = %d", rec.Code)
	}
}

func Test_API_Search_FilePath(t *testing.T) {
	q := &fakeQuerier{
		files:   []gitquery.AuthoredFile{{Path: "a.go"}, {Path: "b.go"}},
		content: map[string]string{"a.go": "func run() {}", "b.go": "func run() {}"},
	}
	_, h := newTestAPI(t, q)

	rec := do(t, h, http.MethodPost, "/api/git/search", `{"repoPath":"/repo","authorEmail":"e","query":"run","filePath":"b.go"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := decode[searchResponse](t, rec.Body.Bytes())
	if len(body.Results) != 1 || body.Results[0].RelativePath != "b.go" {
		t.Errorf("expected only b.go, got %s", rec.Body)
	}
}

func Test_API_WrongMethod(t *testing.T) {
	_, h := newTestAPI(t, &fakeQuerier{})

	rec := do(t, h, http.MethodGet, "/api/git/files", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
}
