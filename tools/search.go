package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the authortree_search tool.
type SearchArgs struct {
	RepoPath     string `json:"repoPath" jsonschema:"Absolute path of the git repository"`
	AuthorEmail  string `json:"authorEmail" jsonschema:"Author whose files are searched"`
	Branch       string `json:"branch,omitempty" jsonschema:"Branch to scope history to (default: all branches)"`
	Query        string `json:"query" jsonschema:"Search query. Plain text for word match, quoted for exact phrase, /regex/ for regular expression"`
	FilePath     string `json:"filePath,omitempty" jsonschema:"Optional repository-relative path to search within a single file (overrides fileGlob)"`
	FileGlob     string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter files (e.g. **/*.go)"`
	MaxResults   int    `json:"maxResults,omitempty" jsonschema:"Maximum number of file results to return (default 50)"`
	ContextLines int    `json:"contextLines,omitempty" jsonschema:"Number of context lines before and after each match (default 2)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Source index.Source
	Logger *slog.Logger
	// MaxResults and ContextLines apply when the caller leaves them unset.
	MaxResults   int
	ContextLines int
}

// Handle processes an authortree_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("authortree_search called with empty query")
		return errorResult("Error: query parameter is required"), nil, nil
	}
	if args.RepoPath == "" || args.AuthorEmail == "" {
		h.Logger.Warn("authortree_search called without repoPath or authorEmail")
		return errorResult("Error: repoPath and authorEmail parameters are required"), nil, nil
	}

	search := index.AuthoredSearch{
		ListOptions: gitquery.ListOptions{
			RepoPath:    args.RepoPath,
			AuthorEmail: args.AuthorEmail,
			Branch:      args.Branch,
		},
		Query:        args.Query,
		FilePath:     args.FilePath,
		FileGlob:     args.FileGlob,
		MaxResults:   args.MaxResults,
		ContextLines: args.ContextLines,
	}
	if search.MaxResults == 0 {
		search.MaxResults = h.MaxResults
	}
	if search.ContextLines == 0 {
		search.ContextLines = h.ContextLines
	}

	results, totalMatches, err := index.SearchAuthored(ctx, h.Source, search, h.Logger)
	if err != nil {
		h.Logger.Error("authortree_search failed", "query", args.Query, "error", err)
		return errorResult(FormatError(err)), nil, nil
	}

	h.Logger.Info("authortree_search",
		"query", args.Query,
		"filePath", args.FilePath,
		"fileGlob", args.FileGlob,
		"files", len(results),
		"matches", totalMatches,
		"elapsed", time.Since(start),
	)
	return textResult(FormatSearchResults(results, totalMatches)), nil, nil
}
