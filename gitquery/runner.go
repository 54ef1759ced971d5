package gitquery

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Runner executes git with the given arguments in dir and returns stdout.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// RunError is returned by ExecRunner when git exits non-zero or cannot start.
// Stderr holds the redacted diagnostic output.
type RunError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	msg := e.Stderr
	if msg == "" {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("git %s: %s", summarizeArgs(e.Args), msg)
}

func (e *RunError) Unwrap() error { return e.Err }

// ExecRunner runs the git binary as a subprocess.
type ExecRunner struct {
	GitBin string
}

// NewExecRunner returns a runner for gitBin, or "git" from PATH when empty.
func NewExecRunner(gitBin string) *ExecRunner {
	if strings.TrimSpace(gitBin) == "" {
		gitBin = "git"
	}
	return &ExecRunner{GitBin: gitBin}
}

// Run executes git and collects its full output before returning.
func (e *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, e.GitBin, args...)
	if strings.TrimSpace(dir) != "" {
		cmd.Dir = dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		return "", &RunError{Args: args, Stderr: redactTokens(msg), Err: err}
	}
	return stdout.String(), nil
}

var safeArg = regexp.MustCompile(`^[a-z][a-z-]*$`)

// summarizeArgs names the git subcommand without leaking paths, emails or refs.
// Leading global options are skipped.
func summarizeArgs(args []string) string {
	args = skipGlobalOptions(args)
	if len(args) == 0 {
		return "<no-args>"
	}
	if strings.HasPrefix(args[0], "--") && safeArg.MatchString(strings.TrimPrefix(args[0], "--")) {
		return args[0]
	}
	if !safeArg.MatchString(args[0]) {
		return "<redacted>"
	}
	return args[0]
}

// skipGlobalOptions drops "-c key=value" pairs and "--flag" options that
// precede the subcommand.
func skipGlobalOptions(args []string) []string {
	for len(args) >= 2 {
		switch {
		case args[0] == "-c":
			args = args[2:]
		case strings.HasPrefix(args[0], "--"):
			args = args[1:]
		default:
			return args
		}
	}
	return args
}

var (
	credentialURL = regexp.MustCompile(`https?://[^\s@]+@`)
	secretParam   = regexp.MustCompile(`(?i)(token|secret|password|passwd|bearer)=[^\s]+`)
)

// redactTokens removes obvious credential substrings from git diagnostics.
func redactTokens(s string) string {
	s = credentialURL.ReplaceAllString(s, "https://<redacted>@")
	s = secretParam.ReplaceAllString(s, "$1=<redacted>")
	return s
}
