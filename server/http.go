package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/index"
	"github.com/lexandro/authortree/language"
	"github.com/lexandro/authortree/tree"
)

const maxBodyBytes = 1 << 20

// Querier is the repository service behind the HTTP routes.
type Querier interface {
	ListAuthoredFiles(ctx context.Context, req gitquery.ListOptions) ([]gitquery.AuthoredFile, error)
	GetFileContent(ctx context.Context, repoPath, filePath string) (string, error)
	OpenInEditor(ctx context.Context, filePath string) error
	ConfiguredAuthorEmail(ctx context.Context) (string, error)
}

// Options holds the settings the API reads per request. They can be replaced
// while serving.
type Options struct {
	AllowedOrigin     string
	RequestsPerSecond float64
	Burst             int
	MaxResults        int
	ContextLines      int
}

// API serves the JSON routes used by the browser UI.
type API struct {
	svc     Querier
	logger  *slog.Logger
	limiter *RateLimiter

	mu   sync.RWMutex
	opts Options
}

func NewAPI(svc Querier, logger *slog.Logger, opts Options) *API {
	return &API{
		svc:     svc,
		logger:  logger,
		limiter: NewRateLimiter(opts.RequestsPerSecond, opts.Burst),
		opts:    opts,
	}
}

// SetOptions swaps the origin, rate and search defaults for later requests.
func (a *API) SetOptions(opts Options) {
	a.mu.Lock()
	a.opts = opts
	a.mu.Unlock()
	a.limiter.SetLimit(opts.RequestsPerSecond, opts.Burst)
}

func (a *API) options() Options {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.opts
}

// Handler returns the routed handler wrapped in request id, logging, CORS
// and rate limiting.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/git/files", a.handleFiles)
	mux.HandleFunc("GET /api/git/content", a.handleContent)
	mux.HandleFunc("POST /api/editor", a.handleEditor)
	mux.HandleFunc("GET /api/git/user-email", a.handleUserEmail)
	mux.HandleFunc("POST /api/git/tree", a.handleTree)
	mux.HandleFunc("POST /api/git/search", a.handleSearch)

	var h http.Handler = mux
	h = withRateLimit(a.limiter, a.logger, h)
	h = withCORS(func() string { return a.options().AllowedOrigin }, h)
	h = withLogging(a.logger, h)
	return withRequestID(h)
}

type errorBody struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var e *gitquery.Error
	if !errors.As(err, &e) {
		e = &gitquery.Error{Kind: gitquery.KindOf(err), Message: err.Error()}
	}
	a.logger.Debug("request failed", "path", r.URL.Path, "kind", e.Kind, "error", err, "requestId", RequestID(r.Context()))
	writeJSON(w, e.Kind.HTTPStatus(), errorBody{Error: e.Message, Kind: string(e.Kind), Detail: e.Detail})
}

func invalidInput(format string, args ...any) error {
	return &gitquery.Error{Kind: gitquery.InvalidInput, Message: fmt.Sprintf(format, args...)}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if !isJSON(r) {
		return invalidInput("expected a JSON body")
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return invalidInput("malformed JSON body: %v", err)
	}
	return nil
}

func requireRepoAndAuthor(req gitquery.ListOptions) error {
	if req.RepoPath == "" || req.AuthorEmail == "" {
		return invalidInput("repoPath and authorEmail are required")
	}
	return nil
}

func (a *API) handleFiles(w http.ResponseWriter, r *http.Request) {
	var req gitquery.ListOptions
	if err := decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := requireRepoAndAuthor(req); err != nil {
		a.writeError(w, r, err)
		return
	}

	elapsed := StartElapsed(r.Context(), a.logger, "files", progressInterval)
	defer elapsed.Stop()

	files, err := a.svc.ListAuthoredFiles(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if files == nil {
		files = []gitquery.AuthoredFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

type contentResponse struct {
	Content  string `json:"content"`
	Language string `json:"language"`
	Binary   bool   `json:"binary"`
}

func (a *API) handleContent(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	repoPath, filePath := query.Get("repoPath"), query.Get("filePath")
	if repoPath == "" || filePath == "" {
		a.writeError(w, r, invalidInput("repoPath and filePath are required"))
		return
	}

	content, err := a.svc.GetFileContent(r.Context(), repoPath, filePath)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	etag := `"` + strconv.FormatUint(xxhash.Sum64String(content), 16) + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	// Binary files pass through as best-effort text; the flag is advisory.
	writeJSON(w, http.StatusOK, contentResponse{
		Content:  content,
		Language: language.EditorMode(filePath),
		Binary:   language.IsBinaryContent([]byte(content)),
	})
}

type editorRequest struct {
	FilePath string `json:"filePath"`
	RepoPath string `json:"repoPath,omitempty"`
}

func (a *API) handleEditor(w http.ResponseWriter, r *http.Request) {
	var req editorRequest
	if err := decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.FilePath == "" {
		a.writeError(w, r, invalidInput("filePath is required"))
		return
	}

	path := req.FilePath
	if req.RepoPath != "" && !filepath.IsAbs(path) {
		path = filepath.Join(req.RepoPath, filepath.FromSlash(path))
	}
	if err := a.svc.OpenInEditor(r.Context(), path); err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (a *API) handleUserEmail(w http.ResponseWriter, r *http.Request) {
	email, err := a.svc.ConfiguredAuthorEmail(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email})
}

type treeRequest struct {
	gitquery.ListOptions
	SortBy string `json:"sortBy,omitempty"`
	Query  string `json:"query,omitempty"`
	Glob   string `json:"glob,omitempty"`
}

type treeResponse struct {
	Total int          `json:"total"`
	Shown int          `json:"shown"`
	Nodes []*tree.Node `json:"nodes"`
}

func (a *API) handleTree(w http.ResponseWriter, r *http.Request) {
	var req treeRequest
	if err := decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := requireRepoAndAuthor(req.ListOptions); err != nil {
		a.writeError(w, r, err)
		return
	}
	sortBy, err := tree.ParseSortBy(req.SortBy)
	if err != nil {
		a.writeError(w, r, invalidInput("%v", err))
		return
	}

	elapsed := StartElapsed(r.Context(), a.logger, "tree", progressInterval)
	defer elapsed.Stop()

	files, err := a.svc.ListAuthoredFiles(r.Context(), req.ListOptions)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	forest, err := tree.FilterGlob(tree.Build(files), req.Glob)
	if err != nil {
		a.writeError(w, r, invalidInput("invalid glob %q", req.Glob))
		return
	}
	forest = tree.Sort(tree.Filter(forest, req.Query), sortBy)
	if forest == nil {
		forest = []*tree.Node{}
	}
	writeJSON(w, http.StatusOK, treeResponse{Total: len(files), Shown: tree.CountLeaves(forest), Nodes: forest})
}

type searchResponse struct {
	Results      []index.ContentSearchResult `json:"results"`
	TotalMatches int                         `json:"totalMatches"`
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req index.AuthoredSearch
	if err := decodeBody(w, r, &req); err != nil {
		a.writeError(w, r, err)
		return
	}
	if err := requireRepoAndAuthor(req.ListOptions); err != nil {
		a.writeError(w, r, err)
		return
	}
	if req.Query == "" {
		a.writeError(w, r, invalidInput("query is required"))
		return
	}
	opts := a.options()
	if req.MaxResults == 0 {
		req.MaxResults = opts.MaxResults
	}
	if req.ContextLines == 0 {
		req.ContextLines = opts.ContextLines
	}

	elapsed := StartElapsed(r.Context(), a.logger, "search", progressInterval)
	defer elapsed.Stop()

	results, total, err := index.SearchAuthored(r.Context(), a.svc, req, a.logger)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if results == nil {
		results = []index.ContentSearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results, TotalMatches: total})
}
