package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/tree"
)

type filesFlags struct {
	repo   string
	author string
	branch string
	sortBy string
	filter string
	glob   string
	asJSON bool
}

func newFilesCmd(flags *globalFlags) *cobra.Command {
	var ff filesFlags
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Print the tree of files an author touched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}
			logger, _ := setupLogger(cfg.Log.Level, cfg.Log.File, io.Discard)
			svc := newService(cfg, logger)

			if ff.author == "" {
				if ff.author, err = svc.ConfiguredAuthorEmail(cmd.Context()); err != nil {
					return fmt.Errorf("no --author given: %w", err)
				}
			}
			sortBy, err := tree.ParseSortBy(ff.sortBy)
			if err != nil {
				return err
			}

			files, err := svc.ListAuthoredFiles(cmd.Context(), gitquery.ListOptions{
				RepoPath:    ff.repo,
				AuthorEmail: ff.author,
				Branch:      ff.branch,
			})
			if err != nil {
				return err
			}

			forest, err := tree.FilterGlob(tree.Build(files), ff.glob)
			if err != nil {
				return fmt.Errorf("invalid --glob %q: %w", ff.glob, err)
			}
			forest = tree.Sort(tree.Filter(forest, ff.filter), sortBy)
			return printForest(cmd.OutOrStdout(), forest, ff.asJSON)
		},
	}
	cmd.Flags().StringVar(&ff.repo, "repo", ".", "Repository path")
	cmd.Flags().StringVar(&ff.author, "author", "", "Author email (default: git user.email)")
	cmd.Flags().StringVar(&ff.branch, "branch", "", "Branch to scope history to (default: all branches)")
	cmd.Flags().StringVar(&ff.sortBy, "sort", "name", "Sort order: name|date")
	cmd.Flags().StringVar(&ff.filter, "filter", "", "Case-insensitive substring filter on names")
	cmd.Flags().StringVar(&ff.glob, "glob", "", "Glob filter on full paths")
	cmd.Flags().BoolVar(&ff.asJSON, "json", false, "Print the tree as JSON")
	return cmd
}

func printForest(w io.Writer, forest []*tree.Node, asJSON bool) error {
	if asJSON {
		if forest == nil {
			forest = []*tree.Node{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(forest)
	}
	if len(forest) == 0 {
		_, err := fmt.Fprintln(w, "No authored files found.")
		return err
	}
	return tree.Render(w, forest)
}

