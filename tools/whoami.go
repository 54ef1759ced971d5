package tools

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// EmailResolver reports the email configured in git.
type EmailResolver interface {
	ConfiguredAuthorEmail(ctx context.Context) (string, error)
}

// WhoamiArgs is empty; the tool takes no input.
type WhoamiArgs struct{}

// WhoamiHandler holds the dependencies for the whoami tool.
type WhoamiHandler struct {
	Service EmailResolver
	Logger  *slog.Logger
}

// Handle processes an authortree_whoami request.
func (h *WhoamiHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args WhoamiArgs) (*mcp.CallToolResult, any, error) {
	email, err := h.Service.ConfiguredAuthorEmail(ctx)
	if err != nil {
		h.Logger.Error("authortree_whoami failed", "error", err)
		return errorResult(FormatError(err)), nil, nil
	}
	return textResult(email), nil, nil
}
