package gitquery

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Options tunes the Service. Zero fields fall back to DefaultOptions.
type Options struct {
	// Timeout bounds every operation's chain of git invocations.
	Timeout time.Duration
	// Workers bounds concurrent per-file existence checks.
	Workers int
	// DefaultEditor is launched when git has no core.editor configured.
	DefaultEditor string
	// DateLayout formats AuthoredFile.LastModified.
	DateLayout string
	// Exclude holds doublestar patterns hidden from listings.
	Exclude []string
	// LaunchGrace is how long an editor must survive to count as started.
	LaunchGrace time.Duration
	// MaxFileSize caps GetFileContent reads, in bytes.
	MaxFileSize int64
	// IgnoreEmailCase matches author emails case-insensitively.
	IgnoreEmailCase bool
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Timeout:       2 * time.Minute,
		Workers:       4,
		DefaultEditor: "code",
		DateLayout:    "1/2/2006",
		LaunchGrace:   500 * time.Millisecond,
		MaxFileSize:   5 * 1024 * 1024,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if strings.TrimSpace(o.DefaultEditor) == "" {
		o.DefaultEditor = d.DefaultEditor
	}
	if o.DateLayout == "" {
		o.DateLayout = d.DateLayout
	}
	if o.LaunchGrace <= 0 {
		o.LaunchGrace = d.LaunchGrace
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = d.MaxFileSize
	}
	return o
}

// Service answers repository queries by shelling out to git.
// It holds no per-request state; options may be swapped while serving.
type Service struct {
	runner Runner
	logger *slog.Logger

	mu   sync.RWMutex
	opts Options
}

// NewService creates a Service using runner for every git invocation.
func NewService(runner Runner, logger *slog.Logger, opts Options) *Service {
	return &Service{
		runner: runner,
		logger: logger,
		opts:   opts.withDefaults(),
	}
}

// SetOptions replaces the options used by subsequent calls.
func (s *Service) SetOptions(opts Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts.withDefaults()
}

// Options returns the options currently in effect.
func (s *Service) Options() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts
}

// resolveRepoPath returns the absolute form of repoPath, which must be an
// existing directory.
func resolveRepoPath(repoPath string) (string, error) {
	repoPath = strings.TrimSpace(repoPath)
	if repoPath == "" {
		return "", newError(InvalidPath, "repository path is required", nil)
	}
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return "", newError(InvalidPath, "cannot resolve repository path", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", newError(InvalidPath, "repository path does not exist", err)
	}
	if !info.IsDir() {
		return "", newError(InvalidPath, "repository path is not a directory", nil)
	}
	return abs, nil
}

// queryFailed wraps a git failure, noting when the operation timed out.
func queryFailed(ctx context.Context, message string, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		message += " (timed out)"
	}
	return newError(QueryFailed, message, err)
}
