package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/language"
)

// Source lists an author's files and reads their working-tree content.
// *gitquery.Service satisfies it.
type Source interface {
	ListAuthoredFiles(ctx context.Context, req gitquery.ListOptions) ([]gitquery.AuthoredFile, error)
	GetFileContent(ctx context.Context, repoPath, filePath string) (string, error)
}

// AuthoredSearch is a content search restricted to one author's files.
type AuthoredSearch struct {
	gitquery.ListOptions
	Query        string `json:"query"`
	FilePath     string `json:"filePath,omitempty"`
	FileGlob     string `json:"fileGlob,omitempty"`
	MaxResults   int    `json:"maxResults,omitempty"`
	ContextLines int    `json:"contextLines,omitempty"`
}

const indexWorkers = 8

// SearchAuthored lists the author's files, indexes their current content into
// a throwaway in-memory index, and runs the query against it. Binary and
// unreadable files are skipped. A FilePath limits the search to that one file.
func SearchAuthored(ctx context.Context, src Source, req AuthoredSearch, logger *slog.Logger) ([]ContentSearchResult, int, error) {
	start := time.Now()

	files, err := src.ListAuthoredFiles(ctx, req.ListOptions)
	if err != nil {
		return nil, 0, err
	}

	contentIndex, err := NewContentIndex()
	if err != nil {
		return nil, 0, err
	}
	defer contentIndex.Close()

	candidates := files
	if req.FilePath != "" {
		candidates = onlyPath(files, req.FilePath)
	}
	indexFiles(ctx, src, req.RepoPath, candidates, contentIndex, logger)
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	contextLines := req.ContextLines
	if contextLines == 0 {
		contextLines = DefaultContextLines
	}
	results, total, err := contentIndex.Search(SearchOptions{
		Query:        req.Query,
		FilePath:     req.FilePath,
		FileGlob:     req.FileGlob,
		MaxResults:   req.MaxResults,
		ContextLines: contextLines,
	})
	if err != nil {
		return nil, 0, &gitquery.Error{Kind: gitquery.InvalidInput, Message: "invalid search query", Err: err}
	}

	logger.Info("searched authored files",
		"repo", req.RepoPath,
		"candidates", len(files),
		"indexed", contentIndex.DocumentCount(),
		"files", len(results),
		"matches", total,
		"elapsed", time.Since(start),
	)
	return results, total, nil
}

// onlyPath returns the entry of files whose path is filePath, if any.
func onlyPath(files []gitquery.AuthoredFile, filePath string) []gitquery.AuthoredFile {
	filePath = strings.ReplaceAll(filePath, "\\", "/")
	for _, file := range files {
		if file.Path == filePath {
			return []gitquery.AuthoredFile{file}
		}
	}
	return nil
}

// indexFiles reads files with a bounded worker pool into contentIndex.
func indexFiles(ctx context.Context, src Source, repoPath string, files []gitquery.AuthoredFile, contentIndex *ContentIndex, logger *slog.Logger) {
	jobs := make(chan string, 100)
	var wg sync.WaitGroup
	for i := 0; i < indexWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := indexSingleFile(ctx, src, repoPath, path, contentIndex); err != nil {
					logger.Debug("skipped file", "path", path, "error", err)
				}
			}
		}()
	}

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		jobs <- file.Path
	}
	close(jobs)
	wg.Wait()
}

func indexSingleFile(ctx context.Context, src Source, repoPath, path string, contentIndex *ContentIndex) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	content, err := src.GetFileContent(ctx, repoPath, path)
	if err != nil {
		return err
	}
	if language.IsBinaryContent([]byte(content)) {
		return fmt.Errorf("binary file")
	}
	return contentIndex.IndexFile(path, content, language.EditorMode(path))
}
