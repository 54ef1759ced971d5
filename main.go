package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lexandro/authortree/config"
	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/server"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "authortree",
		Short:         "Browse the files you authored in a git repository",
		Version:       server.Version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: <user config dir>/authortree/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug|info|warn|error (overrides config)")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Log file path (default: stderr)")

	root.AddCommand(
		newServeCmd(flags),
		newMCPCmd(flags),
		newFilesCmd(flags),
		newRegisterCmd(),
	)
	return root
}

// resolveConfigPath returns the --config value or the default location.
func (f *globalFlags) resolveConfigPath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.DefaultPath()
}

// load reads the config file and applies the logging flags over it.
func (f *globalFlags) load() (*config.Config, string, error) {
	path, err := f.resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, "", err
	}
	if f.logLevel != "" {
		if _, err := config.ParseLevel(f.logLevel); err != nil {
			return nil, "", err
		}
		cfg.Log.Level = f.logLevel
	}
	if f.logFile != "" {
		cfg.Log.File = f.logFile
	}
	return cfg, path, nil
}

func newService(cfg *config.Config, logger *slog.Logger) *gitquery.Service {
	return gitquery.NewService(gitquery.NewExecRunner(cfg.Git.Binary), logger, cfg.GitOptions())
}

// setupLogger creates an slog.Logger writing to a file, or to fallback when
// logFile is empty. MCP mode passes stderr so stdout stays free for the protocol.
// The returned LevelVar lets a config reload change the level.
func setupLogger(level string, logFile string, fallback io.Writer) (*slog.Logger, *slog.LevelVar) {
	logLevel := new(slog.LevelVar)
	if parsed, err := config.ParseLevel(level); err == nil {
		logLevel.Set(parsed)
	}

	writer := fallback
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler), logLevel
}
