package server

import (
	"github.com/lexandro/authortree/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients and by the CLI.
const Version = "0.1.0"

// SetupMCP creates the MCP server with all tool registrations.
func SetupMCP(
	filesHandler *tools.FilesHandler,
	readHandler *tools.ReadHandler,
	searchHandler *tools.SearchHandler,
	whoamiHandler *tools.WhoamiHandler,
) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "authortree",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server answers questions about the files a given author has touched in a git repository.

- Use authortree_whoami to find the email git is configured with
- Use authortree_files to list an author's files as a tree (or flat with flat=true)
- Use authortree_read to read one of those files
- Use authortree_search to search only within an author's files

Every call queries git directly; nothing is cached between calls.`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "authortree_files",
		Description: `List files touched by commits whose author email matches exactly, limited to files that still exist.

Options:
  - branch: scope history to one branch (default: all branches)
  - sortBy: "name" (locale order) or "date" (newest first)
  - query: case-insensitive substring on names; ancestors of matches are kept
  - glob: doublestar pattern on full paths (e.g. "src/**/*.go")`,
	}, filesHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "authortree_read",
		Description: `Read a file from the repository working tree. Returns numbered lines (format: "N: content"). Use offset and limit for large files.`,
	}, readHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "authortree_search",
		Description: `Full-text search across the current content of an author's files.

Query formats:
  - Plain text: word-level matching (e.g., "handleRequest")
  - "quoted text": exact phrase matching
  - /regex/: regular expression matching (e.g., "/func\s+\w+Handler/")`,
	}, searchHandler.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "authortree_whoami",
		Description: "Return the user.email configured in git, the usual author to query.",
	}, whoamiHandler.Handle)

	return mcpServer
}
