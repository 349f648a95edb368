// Package langdetect guesses the language of code block bodies and compares
// the guess with a declared language tag. Detection uses go-enry shebang and
// classifier support plus a few strong textual hints.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be detected with confidence.
const Unknown = "text"

const (
	langGo         = "go"
	langPython     = "python"
	langJavaScript = "javascript"
	langJSON       = "json"
	langYAML       = "yaml"
	langHTML       = "html"
	langSQL        = "sql"
	langRust       = "rust"
	langDockerfile = "dockerfile"
	langBash       = "bash"
)

// classifierCandidates limits the go-enry classifier to common languages.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Markdown", "Dockerfile",
}

// hint recognizes one language from unmistakable surface patterns.
type hint func(content, trimmed []byte, text string) bool

// hints are tried in order; the first match wins.
//
//nolint:gochecknoglobals // Read-only detector table.
var hints = []struct {
	lang  string
	match hint
}{
	{langGo, func(_, trimmed []byte, _ string) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{langPython, looksLikePython},
	{langHTML, func(_, trimmed []byte, _ string) bool {
		lower := bytes.ToLower(trimmed)
		for _, tag := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(tag)) {
				return true
			}
		}
		return false
	}},
	{langJSON, func(_, trimmed []byte, _ string) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{langDockerfile, func(content, trimmed []byte, _ string) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(bytes.Contains(content, []byte("\nFROM ")) && bytes.Contains(content, []byte("\nRUN "))) ||
			(bytes.Contains(content, []byte("WORKDIR ")) && bytes.Contains(content, []byte("COPY ")))
	}},
	{langSQL, func(_, _ []byte, text string) bool {
		upper := strings.ToUpper(strings.TrimSpace(text))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{langRust, func(_, _ []byte, text string) bool {
		return strings.Contains(text, "fn main()") ||
			strings.Contains(text, "println!") ||
			strings.Contains(text, "let mut ")
	}},
	{langJavaScript, func(_, _ []byte, text string) bool {
		return strings.Contains(text, "=>") ||
			strings.Contains(text, "const ") ||
			strings.Contains(text, "let ") ||
			strings.Contains(text, "console.log")
	}},
	{langYAML, looksLikeYAML},
}

// Detect returns the lower-case language name for content, or Unknown.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	trimmed := bytes.TrimSpace(content)
	text := string(content)
	for _, h := range hints {
		if h.match(content, trimmed, text) {
			return h.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Unknown
}

func looksLikePython(_, _ []byte, text string) bool {
	if strings.Contains(text, "def ") && strings.Contains(text, "):") {
		return true
	}
	if strings.Contains(text, "import ") && !strings.Contains(text, "import (") {
		if strings.Contains(text, "from ") || strings.HasPrefix(strings.TrimSpace(text), "import ") {
			return true
		}
	}
	return strings.Contains(text, "__name__") || strings.Contains(text, "__main__")
}

// looksLikeYAML counts "key: value" lines and list items.
func looksLikeYAML(content, _ []byte, _ string) bool {
	count := 0
	for _, line := range bytes.Split(content, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || bytes.HasPrefix(line, []byte("#")) {
			continue
		}
		if bytes.Contains(line, []byte(": ")) &&
			!bytes.Contains(line, []byte("(")) &&
			!bytes.Contains(line, []byte("{")) &&
			!bytes.HasPrefix(line, []byte(`"`)) {
			count++
		}
		if bytes.HasPrefix(line, []byte("- ")) {
			count++
		}
	}
	return count >= 2
}

// normalize converts go-enry language names to lower-case tags.
func normalize(lang string) string {
	if lang == "Shell" {
		return langBash
	}
	return strings.ToLower(lang)
}
