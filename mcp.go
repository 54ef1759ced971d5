package main

import (
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/lexandro/authortree/server"
	"github.com/lexandro/authortree/tools"
)

func newMCPCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := flags.load()
			if err != nil {
				return err
			}

			// never stdout: it carries the protocol
			logger, _ := setupLogger(cfg.Log.Level, cfg.Log.File, os.Stderr)
			svc := newService(cfg, logger)

			mcpServer := server.SetupMCP(
				&tools.FilesHandler{Service: svc, Logger: logger},
				&tools.ReadHandler{Service: svc, Logger: logger},
				&tools.SearchHandler{
					Source:       svc,
					Logger:       logger,
					MaxResults:   cfg.Search.MaxResults,
					ContextLines: cfg.Search.ContextLines,
				},
				&tools.WhoamiHandler{Service: svc, Logger: logger},
			)

			logger.Info("MCP server starting on stdio", "version", server.Version)
			if err := mcpServer.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
				logger.Error("MCP server error", "error", err)
				return err
			}
			return nil
		},
	}
}
