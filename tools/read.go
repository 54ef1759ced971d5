package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/lexandro/authortree/language"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ContentReader reads a file from a repository's working tree.
type ContentReader interface {
	GetFileContent(ctx context.Context, repoPath, filePath string) (string, error)
}

// ReadArgs defines the input parameters for the authortree_read tool.
type ReadArgs struct {
	RepoPath string `json:"repoPath" jsonschema:"Absolute path of the git repository"`
	FilePath string `json:"filePath" jsonschema:"Repository-relative file path (e.g. src/main.go)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"1-based line to start from (default 1)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum number of lines to return (default all)"`
}

// ReadHandler holds the dependencies for the read tool.
type ReadHandler struct {
	Service ContentReader
	Logger  *slog.Logger
}

// Handle processes an authortree_read request.
func (h *ReadHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReadArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.RepoPath == "" || args.FilePath == "" {
		h.Logger.Warn("authortree_read called without repoPath or filePath")
		return errorResult("Error: repoPath and filePath parameters are required"), nil, nil
	}

	content, err := h.Service.GetFileContent(ctx, args.RepoPath, args.FilePath)
	if err != nil {
		h.Logger.Info("authortree_read failed", "filePath", args.FilePath, "error", err)
		return errorResult(FormatError(err)), nil, nil
	}
	if language.IsBinaryContent([]byte(content)) {
		return errorResult("Error: " + args.FilePath + " is a binary file"), nil, nil
	}

	h.Logger.Info("authortree_read", "filePath", args.FilePath, "elapsed", time.Since(start))
	return textResult(FormatFileContent(args.FilePath, language.EditorMode(args.FilePath), content, args.Offset, args.Limit)), nil, nil
}
