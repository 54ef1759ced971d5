package tools

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/lexandro/authortree/gitquery"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeService stands in for *gitquery.Service in handler tests.
type fakeService struct {
	files    []gitquery.AuthoredFile
	content  map[string]string
	email    string
	err      error
	lastList gitquery.ListOptions
}

func (f *fakeService) ListAuthoredFiles(ctx context.Context, req gitquery.ListOptions) ([]gitquery.AuthoredFile, error) {
	f.lastList = req
	return f.files, f.err
}

func (f *fakeService) GetFileContent(ctx context.Context, repoPath, filePath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	content, ok := f.content[filePath]
	if !ok {
		return "", &gitquery.Error{Kind: gitquery.ReadFailed, Message: "file not found: " + filePath}
	}
	return content, nil
}

func (f *fakeService) ConfiguredAuthorEmail(ctx context.Context) (string, error) {
	return f.email, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("expected result content")
	}
	return result.Content[0].(*mcp.TextContent).Text
}
