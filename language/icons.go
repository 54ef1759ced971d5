package language

import "strings"

// Icon identifiers understood by the tree view. They name icons, not languages,
// so several extensions share one entry.
const (
	IconFolder   = "folder"
	IconDocument = "document"
)

// ExtensionToIcon maps lowercased file extensions (without dot) to icon identifiers.
var ExtensionToIcon = map[string]string{
	// JavaScript / TypeScript
	"ts": "typescript", "tsx": "typescript", "mts": "typescript",
	"js": "javascript", "jsx": "javascript",
	// Data / Config
	"json": "json",
	"yaml": "yaml", "yml": "yaml",
	"xml": "xml",
	// Web
	"html": "html", "htm": "html",
	"css": "css", "scss": "css", "sass": "css", "less": "css",
	// Docs
	"md": "markdown", "mdx": "markdown",
	// Images
	"png": "image", "jpg": "image", "jpeg": "image", "gif": "image", "svg": "image", "webp": "image",
	// Frameworks
	"vue": "vue", "svelte": "svelte",
	// Languages
	"py": "python", "rb": "ruby", "go": "go", "rs": "rust", "java": "java",
	"php": "php", "swift": "swift", "kt": "kotlin",
	// Config & build
	"dockerfile": "docker", "dockerignore": "docker",
	"gitignore": "git",
	"npmrc": "npm", "nvmrc": "npm",
	// Media
	"pdf": "pdf",
	"ttf": "font", "otf": "font", "woff": "font", "woff2": "font",
	"mp3": "audio", "wav": "audio",
	"mp4": "video", "mov": "video",
	// Scripts
	"sh": "shell", "bash": "shell", "zsh": "shell",
}

// IconFor returns the icon identifier for a tree entry name.
// Folders always get IconFolder; files fall back to IconDocument.
func IconFor(name string, isDir bool) string {
	if isDir {
		return IconFolder
	}
	ext := strings.ToLower(name)
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	if icon, ok := ExtensionToIcon[ext]; ok {
		return icon
	}
	return IconDocument
}
