package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// FileName is the per-repository ignore file, in .gitignore syntax.
const FileName = ".authortreeignore"

// Matcher decides whether an authored file is hidden from listings.
// It combines configured doublestar patterns with the repository's FileName rules.
// Safe for concurrent use.
type Matcher struct {
	repoIgnore gitignore.GitIgnore
	patterns   []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir  string
	Patterns []string
}

// NewMatcher creates a matcher for the repository at RootDir.
// Invalid patterns are dropped.
func NewMatcher(options MatcherOptions) *Matcher {
	patterns := make([]string, 0, len(options.Patterns))
	for _, p := range options.Patterns {
		p = strings.TrimSpace(filepath.ToSlash(p))
		if p == "" || !doublestar.ValidatePattern(p) {
			continue
		}
		patterns = append(patterns, p)
	}

	return &Matcher{
		repoIgnore: loadIgnoreFile(filepath.Join(options.RootDir, FileName), options.RootDir),
		patterns:   patterns,
	}
}

// ShouldIgnore reports whether relativePath ('/'-separated, relative to the
// root) is excluded. A pattern matches either the whole path or its base name.
func (m *Matcher) ShouldIgnore(relativePath string) bool {
	relativePath = filepath.ToSlash(relativePath)
	baseName := path.Base(relativePath)

	for _, pattern := range m.patterns {
		if matched, _ := doublestar.Match(pattern, relativePath); matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, _ := doublestar.Match(pattern, baseName); matched {
				return true
			}
		}
	}

	if m.repoIgnore != nil {
		if match := m.repoIgnore.Relative(relativePath, false); match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// loadIgnoreFile parses an ignore file, or returns nil when it cannot be read.
// Reading through an io.Reader keeps the handle lifetime explicit on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
