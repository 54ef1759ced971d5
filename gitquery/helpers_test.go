package gitquery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"sync"
	"testing"
)

// fakeRunner records git invocations and answers them through handle.
type fakeRunner struct {
	mu     sync.Mutex
	calls  [][]string
	handle func(dir string, args []string) (string, error)
}

func (f *fakeRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, slices.Clone(args))
	f.mu.Unlock()
	if f.handle == nil {
		return "", nil
	}
	return f.handle(dir, args)
}

func (f *fakeRunner) subcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, args := range f.calls {
		out = append(out, subcommand(args))
	}
	return out
}

func (f *fakeRunner) callsFor(sub string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out [][]string
	for _, args := range f.calls {
		if subcommand(args) == sub {
			out = append(out, args)
		}
	}
	return out
}

// subcommand returns the git subcommand, skipping global options.
func subcommand(args []string) string {
	args = skipGlobalOptions(args)
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func gitFailure(stderr string) error {
	return &RunError{Args: []string{"x"}, Stderr: stderr, Err: errors.New("exit status 128")}
}

func newTestService(t *testing.T, runner Runner) *Service {
	t.Helper()
	return NewService(runner, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{})
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available on PATH")
	}
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, got, err)
	}
}
