package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Scope selects which client config file receives the entry.
type Scope string

const (
	ScopeProject Scope = "project" // <directory>/.mcp.json
	ScopeUser    Scope = "user"    // ~/.claude.json
)

// ParseScope accepts "project" or "user".
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeProject, ScopeUser:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown scope %q (must be \"project\" or \"user\")", s)
}

// Options describes one registration.
type Options struct {
	Scope Scope
	// Directory holds .mcp.json for project scope; empty means ".".
	Directory string
	// ServerName keys the entry; empty derives it from BinaryPath.
	ServerName string
	// BinaryPath is the executable to launch; empty means the running binary.
	BinaryPath string
	// ServerArgs follow the mcp subcommand, e.g. --config or --log-file.
	ServerArgs []string
}

type mcpServerEntry struct {
	Type    string   `json:"type"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Register writes an MCP server entry that starts "<binary> mcp [args...]"
// and returns the config file it wrote.
func Register(opts Options) (string, error) {
	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		var err error
		if binaryPath, err = detectBinaryPath(); err != nil {
			return "", err
		}
	}
	serverName := opts.ServerName
	if serverName == "" {
		serverName = DeriveServerName(binaryPath)
	}

	configPath, err := resolveConfigPath(opts.Scope, opts.Directory)
	if err != nil {
		return "", err
	}

	entry := buildEntry(binaryPath, append([]string{"mcp"}, opts.ServerArgs...))
	if err := writeConfig(configPath, serverName, entry); err != nil {
		return "", err
	}
	return configPath, nil
}

// DeriveServerName strips .exe and -mcp suffixes from a binary's base name.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope Scope, directory string) (string, error) {
	switch scope {
	case ScopeProject:
		if directory == "" {
			directory = "."
		}
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	case ScopeUser:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(homeDir, ".claude.json"), nil
	}
	return "", fmt.Errorf("unknown scope %q", scope)
}

func buildEntry(binaryPath string, args []string) mcpServerEntry {
	if runtime.GOOS == "windows" {
		return mcpServerEntry{
			Type:    "stdio",
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, args...),
		}
	}
	return mcpServerEntry{Type: "stdio", Command: binaryPath, Args: args}
}

// writeConfig sets mcpServers[serverName] in configPath, keeping every other
// key, and replaces the file atomically.
func writeConfig(configPath string, serverName string, entry mcpServerEntry) error {
	config := map[string]any{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok || servers == nil {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	configDir := filepath.Dir(configPath)
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
