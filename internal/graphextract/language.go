package graphextract

import (
	"path/filepath"
	"strings"
)

// extensionLanguages maps a lowercased file extension (without the dot) to
// the human-readable language name stored on a Node (spec §4.2).
var extensionLanguages = map[string]string{
	"ts":    "TypeScript",
	"tsx":   "TypeScript",
	"js":    "JavaScript",
	"jsx":   "JavaScript",
	"py":    "Python",
	"rs":    "Rust",
	"go":    "Go",
	"java":  "Java",
	"cpp":   "C++",
	"hpp":   "C++",
	"c":     "C",
	"h":     "C",
	"cs":    "C#",
	"rb":    "Ruby",
	"php":   "PHP",
	"swift": "Swift",
	"kt":    "Kotlin",
	"scala": "Scala",
	"lua":   "Lua",
	"sol":   "Solidity",
}

// detectLanguage maps a file path's extension to a language name, falling
// back to the raw extension when it isn't in the known table.
func detectLanguage(filePath string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	if ext == "" {
		return ""
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	return ext
}
