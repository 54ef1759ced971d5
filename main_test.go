package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexandro/authortree/gitquery"
	"github.com/lexandro/authortree/tree"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func Test_RootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"serve": false, "mcp": false, "files": false, "register": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func Test_globalFlags_LoadAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}

	flags := &globalFlags{configPath: path, logLevel: "debug", logFile: "/tmp/x.log"}
	cfg, gotPath, err := flags.load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if gotPath != path || cfg.Log.Level != "debug" || cfg.Log.File != "/tmp/x.log" {
		t.Errorf("unexpected config: path=%s log=%+v", gotPath, cfg.Log)
	}

	flags.logLevel = "loud"
	if _, _, err := flags.load(); err == nil {
		t.Error("expected error for unknown --log-level")
	}
}

func Test_setupLogger_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "authortree.log")
	logger, level := setupLogger("warn", logFile, os.Stderr)

	logger.Info("hidden")
	logger.Warn("shown")
	level.Set(-4)
	logger.Debug("now visible")

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if strings.Contains(text, "hidden") || !strings.Contains(text, "shown") || !strings.Contains(text, "now visible") {
		t.Errorf("unexpected log output:\n%s", text)
	}
}

func Test_printForest(t *testing.T) {
	forest := tree.Build([]gitquery.AuthoredFile{{Path: "src/a.go", LastModified: "1/2/2024"}})

	var text bytes.Buffer
	if err := printForest(&text, forest, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "a.go  (1/2/2024)") {
		t.Errorf("unexpected text output:\n%s", text.String())
	}

	var js bytes.Buffer
	if err := printForest(&js, forest, true); err != nil {
		t.Fatal(err)
	}
	var nodes []map[string]any
	if err := json.Unmarshal(js.Bytes(), &nodes); err != nil || len(nodes) != 1 || nodes[0]["id"] != "src" {
		t.Errorf("unexpected JSON output: %s (%v)", js.String(), err)
	}

	var empty bytes.Buffer
	printForest(&empty, nil, true)
	if strings.TrimSpace(empty.String()) != "[]" {
		t.Errorf("expected [], got %q", empty.String())
	}
}

func Test_RegisterCmd_ProjectScope(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, "register", "project", dir, "--name", "mytree", "--", "--log-level", "debug")
	if err != nil {
		t.Fatalf("register: %v\n%s", err, out)
	}
	if !strings.Contains(out, `Registered "mytree"`) {
		t.Errorf("unexpected output: %s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".mcp.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"mytree"`) || !strings.Contains(string(data), `"--log-level"`) {
		t.Errorf("unexpected config:\n%s", data)
	}
}

func Test_RegisterCmd_BadArgs(t *testing.T) {
	if _, err := runRoot(t, "register", "galaxy"); err == nil {
		t.Error("expected error for unknown scope")
	}
	if _, err := runRoot(t, "register", "user", "extra"); err == nil {
		t.Error("expected error for extra user-scope argument")
	}
}

func Test_FilesCmd_InvalidRepo(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	_, err := runRoot(t, "files", "--config", cfgPath, "--repo", filepath.Join(t.TempDir(), "missing"), "--author", "dev@example.com")
	if gitquery.KindOf(err) != gitquery.InvalidPath {
		t.Errorf("expected InvalidPath, got %v", err)
	}
}
