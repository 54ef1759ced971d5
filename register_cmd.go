package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexandro/authortree/register"
)

func newRegisterCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "register (project [directory] | user) [-- server-args...]",
		Short: "Add authortree to an MCP client config",
		Long: `Writes an entry that starts "authortree mcp" into <directory>/.mcp.json
(project scope) or ~/.claude.json (user scope). Arguments after -- are
passed to the mcp subcommand.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, serverArgs := args, []string(nil)
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				positional, serverArgs = args[:dash], args[dash:]
			}
			if len(positional) == 0 {
				return fmt.Errorf("missing scope (project or user)")
			}

			scope, err := register.ParseScope(positional[0])
			if err != nil {
				return err
			}
			opts := register.Options{Scope: scope, ServerName: name, ServerArgs: serverArgs}
			rest := positional[1:]
			if scope == register.ScopeProject && len(rest) == 1 {
				opts.Directory, rest = rest[0], nil
			}
			if len(rest) > 0 {
				return fmt.Errorf("unexpected arguments: %v", rest)
			}

			configPath, err := register.Register(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %q in %s\n", opts.ServerName, configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "authortree", "Server name in the MCP config")
	return cmd
}
