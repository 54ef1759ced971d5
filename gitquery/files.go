package gitquery

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lexandro/authortree/ignore"
)

// Field separators used in the git log format string.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

// ListAuthoredFiles returns every file the author touched in the selected
// history that still exists at the tip, sorted by path. It either returns the
// full list or an error; partial results are never returned.
func (s *Service) ListAuthoredFiles(ctx context.Context, req ListOptions) ([]AuthoredFile, error) {
	start := time.Now()
	opts := s.Options()

	repoPath, err := resolveRepoPath(req.RepoPath)
	if err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.AuthorEmail)
	if email == "" {
		return nil, newError(InvalidInput, "author email is required", nil)
	}
	branch := strings.TrimSpace(req.Branch)
	if strings.HasPrefix(branch, "-") {
		return nil, newError(InvalidInput, fmt.Sprintf("invalid branch name %q", branch), nil)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if err := s.checkTool(ctx); err != nil {
		return nil, err
	}
	if err := s.checkRepository(ctx, repoPath); err != nil {
		return nil, err
	}

	touched, err := s.authorHistory(ctx, repoPath, email, branch, opts.IgnoreEmailCase)
	if err != nil {
		return nil, err
	}

	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: repoPath, Patterns: opts.Exclude})
	paths := make([]string, 0, len(touched))
	for path := range touched {
		if matcher.ShouldIgnore(path) {
			continue
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)

	ref := branch
	if ref == "" {
		ref = "HEAD"
	}
	present, err := s.existingAtRef(ctx, repoPath, ref, paths, opts.Workers)
	if err != nil {
		return nil, err
	}

	files := make([]AuthoredFile, 0, len(paths))
	for i, path := range paths {
		if !present[i] {
			continue
		}
		when := touched[path]
		files = append(files, AuthoredFile{
			Path:           path,
			Author:         email,
			LastModified:   when.Local().Format(opts.DateLayout),
			LastModifiedAt: when,
		})
	}

	s.logger.Info("listed authored files",
		"repo", repoPath,
		"branch", branch,
		"touched", len(touched),
		"files", len(files),
		"elapsed", time.Since(start),
	)
	return files, nil
}

func (s *Service) checkTool(ctx context.Context) error {
	if _, err := s.runner.Run(ctx, "", "--version"); err != nil {
		return newError(ToolUnavailable, "git is not installed or not executable", err)
	}
	return nil
}

func (s *Service) checkRepository(ctx context.Context, repoPath string) error {
	if _, err := s.runner.Run(ctx, repoPath, "status", "--porcelain", "--untracked-files=no"); err != nil {
		return newError(NotARepository, "path is not a git working copy", err)
	}
	return nil
}

// authorHistory maps every path touched by the author's commits to the date
// of the newest such commit.
func (s *Service) authorHistory(ctx context.Context, repoPath, email, branch string, foldCase bool) (map[string]time.Time, error) {
	args := []string{
		"-c", "core.quotePath=false",
		"log",
		"-z",
		"--fixed-strings",
		"--author=" + email,
		"--format=" + "%x1e%ae%x1f%aI",
		"--name-only",
		"--relative",
	}
	if foldCase {
		args = append(args, "--regexp-ignore-case")
	}
	if branch != "" {
		args = append(args, branch)
	} else {
		args = append(args, "--all")
	}
	args = append(args, "--")

	out, err := s.runner.Run(ctx, repoPath, args...)
	if err != nil {
		return nil, queryFailed(ctx, "reading author history", err)
	}
	touched, err := parseHistory(out, email, foldCase)
	if err != nil {
		return nil, newError(QueryFailed, "parsing author history", err)
	}
	return touched, nil
}

// parseHistory reads NUL-delimited git log output produced with the
// recordSep/fieldSep format and keeps commits whose author email equals
// email, ignoring case when foldCase is set.
func parseHistory(out, email string, foldCase bool) (map[string]time.Time, error) {
	touched := make(map[string]time.Time)
	for _, record := range strings.Split(out, recordSep) {
		if strings.Trim(record, "\n\x00") == "" {
			continue
		}
		header, names := record, ""
		if i := strings.IndexAny(record, "\n\x00"); i >= 0 {
			header, names = record[:i], record[i+1:]
		}
		authorEmail, date, ok := strings.Cut(header, fieldSep)
		if !ok {
			return nil, fmt.Errorf("malformed commit header %q", header)
		}
		if !sameEmail(strings.TrimSpace(authorEmail), email, foldCase) {
			continue
		}
		when, err := time.Parse(time.RFC3339, strings.TrimSpace(date))
		if err != nil {
			return nil, fmt.Errorf("commit date %q: %w", date, err)
		}
		names = strings.TrimLeft(names, "\n")
		for _, path := range strings.Split(names, "\x00") {
			if strings.Trim(path, "\n") == "" {
				continue
			}
			if prev, seen := touched[path]; !seen || when.After(prev) {
				touched[path] = when
			}
		}
	}
	return touched, nil
}

func sameEmail(a, b string, foldCase bool) bool {
	if foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// existingAtRef reports, per path, whether ref's tree still contains it.
// One git invocation per path, at most workers at a time; results keep input order.
func (s *Service) existingAtRef(ctx context.Context, repoPath, ref string, paths []string, workers int) ([]bool, error) {
	present := make([]bool, len(paths))
	if len(paths) == 0 {
		return present, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			out, err := s.runner.Run(gctx, repoPath, "--literal-pathspecs", "ls-tree", "-z", "--name-only", ref, "--", path)
			if err != nil {
				return err
			}
			present[i] = strings.TrimSuffix(out, "\x00") == path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, queryFailed(ctx, "checking files at "+ref, err)
	}
	return present, nil
}
