package language

import (
	"path"
	"strings"
)

// PlainText is the editor mode for files with no recognised extension.
const PlainText = "plaintext"

// extensionToMode maps lowercased extensions (without dot) to the syntax mode
// the content viewer should use.
var extensionToMode = map[string]string{
	"go": "go",
	"js": "javascript", "jsx": "javascript", "mjs": "javascript", "cjs": "javascript",
	"ts": "typescript", "tsx": "typescript", "mts": "typescript", "cts": "typescript",
	"py": "python", "pyi": "python",
	"rs": "rust",
	"java": "java", "kt": "kotlin", "kts": "kotlin",
	"c": "c", "h": "c",
	"cpp": "cpp", "cc": "cpp", "cxx": "cpp", "hpp": "cpp",
	"cs":    "csharp",
	"swift": "swift",
	"rb":    "ruby",
	"php":   "php",
	"sh":    "shell", "bash": "shell", "zsh": "shell",
	"ps1":  "powershell",
	"html": "html", "htm": "html",
	"css": "css", "scss": "scss", "less": "less",
	"json": "json", "jsonc": "json",
	"yaml": "yaml", "yml": "yaml",
	"toml": "toml",
	"xml":  "xml", "svg": "xml",
	"ini": "ini",
	"md":  "markdown", "mdx": "markdown",
	"sql":     "sql",
	"graphql": "graphql", "gql": "graphql",
	"proto": "protobuf",
	"lua":   "lua",
	"vue":   "vue", "svelte": "svelte",
	"tf": "hcl",
}

// filenameToMode covers files identified by name rather than extension.
var filenameToMode = map[string]string{
	"makefile":    "makefile",
	"gnumakefile": "makefile",
	"dockerfile":  "dockerfile",
	"gemfile":     "ruby",
	"rakefile":    "ruby",
	"go.mod":      "go",
	".gitignore":  "ignore",
}

// EditorMode returns the syntax mode for a repo-relative ('/'-separated) path.
func EditorMode(filePath string) string {
	base := strings.ToLower(path.Base(filePath))
	if mode, ok := filenameToMode[base]; ok {
		return mode
	}
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if mode, ok := extensionToMode[ext]; ok {
		return mode
	}
	return PlainText
}
