package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/tree"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FileLister lists the files an author touched.
type FileLister interface {
	ListAuthoredFiles(ctx context.Context, req gitquery.ListOptions) ([]gitquery.AuthoredFile, error)
}

// FilesArgs defines the input parameters for the authortree_files tool.
type FilesArgs struct {
	RepoPath    string `json:"repoPath" jsonschema:"Absolute path of the git repository"`
	AuthorEmail string `json:"authorEmail" jsonschema:"Author email to filter commits by (exact match, case-insensitive)"`
	Branch      string `json:"branch,omitempty" jsonschema:"Branch to scope history to (default: all branches)"`
	SortBy      string `json:"sortBy,omitempty" jsonschema:"name or date (default name)"`
	Query       string `json:"query,omitempty" jsonschema:"Case-insensitive substring filter on file and folder names"`
	Glob        string `json:"glob,omitempty" jsonschema:"Glob pattern on full paths (e.g. src/**/*.go)"`
	Flat        bool   `json:"flat,omitempty" jsonschema:"If true return a flat path list instead of a tree"`
}

// FilesHandler holds the dependencies for the files tool.
type FilesHandler struct {
	Service FileLister
	Logger  *slog.Logger
}

// Handle processes an authortree_files request.
func (h *FilesHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilesArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.RepoPath == "" || args.AuthorEmail == "" {
		h.Logger.Warn("authortree_files called without repoPath or authorEmail")
		return errorResult("Error: repoPath and authorEmail parameters are required"), nil, nil
	}
	sortBy, err := tree.ParseSortBy(args.SortBy)
	if err != nil {
		return errorResult("Error: " + err.Error()), nil, nil
	}

	files, err := h.Service.ListAuthoredFiles(ctx, gitquery.ListOptions{
		RepoPath:    args.RepoPath,
		AuthorEmail: args.AuthorEmail,
		Branch:      args.Branch,
	})
	if err != nil {
		h.Logger.Error("authortree_files failed", "repo", args.RepoPath, "error", err)
		return errorResult(FormatError(err)), nil, nil
	}

	forest, err := tree.FilterGlob(tree.Build(files), args.Glob)
	if err != nil {
		return errorResult("Error: invalid glob pattern " + args.Glob), nil, nil
	}
	forest = tree.Sort(tree.Filter(forest, args.Query), sortBy)

	h.Logger.Info("authortree_files",
		"repo", args.RepoPath,
		"files", len(files),
		"shown", tree.CountLeaves(forest),
		"elapsed", time.Since(start),
	)

	if args.Flat {
		return textResult(FormatAuthoredFiles(leafFiles(forest, files), true)), nil, nil
	}
	return textResult(FormatTree(forest)), nil, nil
}

// leafFiles returns the files whose paths survive in forest, in forest order.
func leafFiles(forest []*tree.Node, files []gitquery.AuthoredFile) []gitquery.AuthoredFile {
	byPath := make(map[string]gitquery.AuthoredFile, len(files))
	for _, f := range files {
		byPath[f.Path] = f
	}
	var out []gitquery.AuthoredFile
	var walk func(nodes []*tree.Node)
	walk = func(nodes []*tree.Node) {
		for _, n := range nodes {
			if n.IsLeaf {
				if f, ok := byPath[n.ID]; ok {
					out = append(out, f)
				}
				continue
			}
			walk(n.Children)
		}
	}
	walk(forest)
	return out
}
