package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/index"
	"github.com/lexandro/authortree/tree"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FormatSearchResults groups line matches by file with line numbers and context.
func FormatSearchResults(results []index.ContentSearchResult, totalMatches int) string {
	if len(results) == 0 {
		return "No matches found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d matches in %d files:\n\n", totalMatches, len(results)))

	for i, result := range results {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(fmt.Sprintf("── %s ──\n", result.RelativePath))

		for _, match := range result.Matches {
			for _, ctxLine := range match.ContextBefore {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
			builder.WriteString(fmt.Sprintf("  %d: %s\n", match.LineNumber, match.LineText))
			for _, ctxLine := range match.ContextAfter {
				builder.WriteString(fmt.Sprintf("  %s\n", ctxLine))
			}
		}
	}

	return builder.String()
}

// FormatAuthoredFiles lists files one per line, with their last modified date
// unless nameOnly is set.
func FormatAuthoredFiles(files []gitquery.AuthoredFile, nameOnly bool) string {
	if len(files) == 0 {
		return "No authored files found."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(files)))
	for _, file := range files {
		if nameOnly {
			builder.WriteString(file.Path)
			builder.WriteString("\n")
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s  (%s)\n", file.Path, file.LastModified))
	}
	return builder.String()
}

// FormatTree renders a forest under a header with its file count.
func FormatTree(forest []*tree.Node) string {
	count := tree.CountLeaves(forest)
	if count == 0 {
		return "No authored files found."
	}
	return fmt.Sprintf("Found %d files:\n\n%s", count, tree.String(forest))
}

// FormatFileContent numbers lines under a header naming the file and its editor
// mode. offset is the 1-based first line to show and limit the line count;
// zero means from the start and to the end.
func FormatFileContent(filePath, mode, content string, offset, limit int) string {
	lines := strings.Split(content, "\n")
	lineCount := len(lines)

	start := 0
	if offset > 1 {
		start = min(offset-1, lineCount)
	}
	end := lineCount
	if limit > 0 {
		end = min(start+limit, lineCount)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s (%d lines, %s) ──\n", filePath, lineCount, mode))

	width := len(fmt.Sprintf("%d", lineCount))
	for i := start; i < end; i++ {
		builder.WriteString(fmt.Sprintf("%*d: %s\n", width, i+1, lines[i]))
	}
	return builder.String()
}

// FormatError renders an error followed by any captured git output.
func FormatError(err error) string {
	text := fmt.Sprintf("Error: %v", err)
	var e *gitquery.Error
	if errors.As(err, &e) && e.Detail != "" {
		text += "\n\n" + e.Detail
	}
	return text
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
