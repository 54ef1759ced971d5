package gitquery

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

// OpenInEditor starts the user's editor on filePath and returns once the
// process has been running for the launch grace period, or has exited.
// The editor is not tied to ctx: it outlives the request that opened it.
func (s *Service) OpenInEditor(ctx context.Context, filePath string) error {
	opts := s.Options()
	filePath = strings.TrimSpace(filePath)
	if filePath == "" {
		return newError(InvalidInput, "file path is required", nil)
	}

	editor := s.configuredEditor(ctx, opts.DefaultEditor)
	argv, err := shellwords.Parse(editor)
	if err != nil || len(argv) == 0 {
		return newError(LaunchFailed, fmt.Sprintf("cannot parse editor command %q", editor), err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(argv[0], append(argv[1:], filePath)...)
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return newError(LaunchFailed, fmt.Sprintf("cannot start %s", argv[0]), err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(opts.LaunchGrace)
	defer timer.Stop()
	select {
	case err := <-done:
		if err != nil {
			e := newError(LaunchFailed, fmt.Sprintf("%s exited immediately", argv[0]), err)
			e.Detail = strings.TrimSpace(stderr.String())
			return e
		}
	case <-timer.C:
	}

	s.logger.Info("opened editor", "editor", argv[0], "file", filePath)
	return nil
}

// configuredEditor returns git's global core.editor, or fallback when unset.
func (s *Service) configuredEditor(ctx context.Context, fallback string) string {
	out, err := s.runner.Run(ctx, "", "config", "--global", "core.editor")
	if err != nil {
		// git config exits 1 when the key is unset.
		s.logger.Debug("no core.editor configured, using fallback", "fallback", fallback, "error", err)
		return fallback
	}
	if editor := strings.TrimSpace(out); editor != "" {
		return editor
	}
	return fallback
}

// ConfiguredAuthorEmail returns git's global user.email.
func (s *Service) ConfiguredAuthorEmail(ctx context.Context) (string, error) {
	out, err := s.runner.Run(ctx, "", "config", "--global", "user.email")
	if err != nil {
		return "", newError(ConfigUnavailable, "git user.email is not configured", err)
	}
	email := strings.TrimSpace(out)
	if email == "" {
		return "", newError(ConfigUnavailable, "git user.email is empty", nil)
	}
	return email, nil
}
