package index

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
)

const (
	DefaultMaxResults   = 50
	DefaultContextLines = 2
)

// ContentSearchResult holds the matching lines of one file.
type ContentSearchResult struct {
	RelativePath string      `json:"path"`
	Matches      []LineMatch `json:"matches"`
}

// LineMatch is one matching line, 1-based, with optional surrounding lines.
type LineMatch struct {
	LineNumber    int      `json:"line"`
	LineText      string   `json:"text"`
	ContextBefore []string `json:"before,omitempty"`
	ContextAfter  []string `json:"after,omitempty"`
}

// SearchOptions configures a content search.
type SearchOptions struct {
	Query        string
	FilePath     string // exact relative path; overrides FileGlob
	FileGlob     string
	MaxResults   int
	ContextLines int
}

// Search runs a full-text query across indexed files and returns per-file
// line matches together with the total number of matching lines.
// Query syntax:
//   - plain words: match query, a line matches if it contains any word
//   - "quoted text": phrase query
//   - /regex/: regexp query, lines matched case-insensitively
func (ci *ContentIndex) Search(options SearchOptions) ([]ContentSearchResult, int, error) {
	ci.mu.RLock()
	defer ci.mu.RUnlock()

	if options.MaxResults <= 0 {
		options.MaxResults = DefaultMaxResults
	}
	if options.ContextLines < 0 {
		options.ContextLines = 0
	}

	fileGlob := strings.ReplaceAll(options.FileGlob, "\\", "/")
	if fileGlob != "" && !doublestar.ValidatePattern(fileGlob) {
		return nil, 0, fmt.Errorf("invalid file glob %q: %w", options.FileGlob, doublestar.ErrBadPattern)
	}

	matcher, err := newLineMatcher(options.Query)
	if err != nil {
		return nil, 0, err
	}

	searchRequest := bleve.NewSearchRequest(buildQuery(options.Query))
	// over-fetch since hits are filtered by path afterwards
	searchRequest.Size = options.MaxResults * 5
	searchRequest.Fields = []string{"path", "mode"}

	searchResults, err := ci.index.Search(searchRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("searching index: %w", err)
	}

	filePath := strings.ReplaceAll(options.FilePath, "\\", "/")
	var results []ContentSearchResult
	totalMatches := 0

	for _, hit := range searchResults.Hits {
		relativePath := hit.ID
		content, ok := ci.fileContents[relativePath]
		if !ok {
			continue
		}

		if filePath != "" {
			if relativePath != filePath {
				continue
			}
		} else if fileGlob != "" {
			if matched, _ := doublestar.Match(fileGlob, relativePath); !matched {
				continue
			}
		}

		lineMatches := findMatchingLines(content, matcher, options.ContextLines)
		if len(lineMatches) == 0 {
			continue
		}
		totalMatches += len(lineMatches)
		results = append(results, ContentSearchResult{RelativePath: relativePath, Matches: lineMatches})

		if len(results) >= options.MaxResults {
			break
		}
	}

	return results, totalMatches, nil
}

func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	if pattern, ok := unwrap(queryString, "/"); ok {
		return bleve.NewRegexpQuery(pattern)
	}
	if phrase, ok := unwrap(queryString, "\""); ok {
		return bleve.NewMatchPhraseQuery(phrase)
	}
	return bleve.NewMatchQuery(queryString)
}

// unwrap strips a matching delimiter pair around s.
func unwrap(s, delim string) (string, bool) {
	if len(s) > 2 && strings.HasPrefix(s, delim) && strings.HasSuffix(s, delim) {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// lineMatcher reports whether one line of content matches the query.
type lineMatcher func(line string) bool

func newLineMatcher(queryString string) (lineMatcher, error) {
	queryString = strings.TrimSpace(queryString)

	if pattern, ok := unwrap(queryString, "/"); ok {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression: %w", err)
		}
		return re.MatchString, nil
	}

	if phrase, ok := unwrap(queryString, "\""); ok {
		needle := strings.ToLower(phrase)
		return func(line string) bool {
			return strings.Contains(strings.ToLower(line), needle)
		}, nil
	}

	terms := strings.Fields(strings.ToLower(queryString))
	return func(line string) bool {
		lower := strings.ToLower(line)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
		return false
	}, nil
}

func findMatchingLines(content string, matches lineMatcher, contextLines int) []LineMatch {
	lines := strings.Split(content, "\n")
	var out []LineMatch

	for lineIdx, line := range lines {
		if !matches(line) {
			continue
		}

		match := LineMatch{LineNumber: lineIdx + 1, LineText: line}
		if contextLines > 0 {
			start := max(lineIdx-contextLines, 0)
			end := min(lineIdx+contextLines+1, len(lines))
			match.ContextBefore = append(match.ContextBefore, lines[start:lineIdx]...)
			match.ContextAfter = append(match.ContextAfter, lines[lineIdx+1:end]...)
		}
		out = append(out, match)
	}
	return out
}
