package gitquery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GetFileContent reads filePath, relative to repoPath, from the working tree.
// It reflects what is on disk now, not the content at any historical commit.
// Binary files are returned as-is; callers decide how to present them.
func (s *Service) GetFileContent(ctx context.Context, repoPath, filePath string) (string, error) {
	start := time.Now()
	opts := s.Options()

	root, err := resolveRepoPath(repoPath)
	if err != nil {
		return "", err
	}
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return "", newError(InvalidInput, "file path is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return "", newError(ReadFailed, "request cancelled", err)
	}

	fullPath := filepath.Join(root, filepath.FromSlash(filePath))
	rel, err := filepath.Rel(root, fullPath)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", newError(InvalidPath, fmt.Sprintf("%q is outside the repository", filePath), err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", newError(ReadFailed, fmt.Sprintf("cannot read %s", filePath), err)
	}
	if info.IsDir() {
		return "", newError(ReadFailed, fmt.Sprintf("%s is a directory", filePath), nil)
	}
	if info.Size() > opts.MaxFileSize {
		return "", newError(ReadFailed, fmt.Sprintf("%s is larger than %d bytes", filePath, opts.MaxFileSize), nil)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", newError(ReadFailed, fmt.Sprintf("cannot read %s", filePath), err)
	}

	s.logger.Debug("read file content",
		"repo", root,
		"file", filePath,
		"bytes", len(data),
		"elapsed", time.Since(start),
	)
	return string(data), nil
}
