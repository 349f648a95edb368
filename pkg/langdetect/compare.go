package langdetect

import (
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Canonical maps a declared language tag such as "py", "golang" or "sh" to
// the name Detect would report. Unrecognized tags are returned lower-cased.
func Canonical(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return ""
	}
	if lang, ok := enry.GetLanguageByAlias(tag); ok {
		return normalize(lang)
	}
	return tag
}

// Agrees reports whether code is consistent with the declared tag. It also
// returns the detected language. A body whose language cannot be detected
// agrees with every tag.
func Agrees(declared string, code []byte) (string, bool) {
	detected := Detect(code)
	if detected == Unknown || declared == "" {
		return detected, true
	}

	want := Canonical(declared)
	if want == detected {
		return detected, true
	}
	// Shell dialects and JavaScript supersets are not told apart by content.
	return detected, compatible(want, detected)
}

//nolint:gochecknoglobals // Read-only lookup table.
var families = map[string]string{
	"bash":       "shell",
	"shell":      "shell",
	"sh":         "shell",
	"zsh":        "shell",
	"javascript": "javascript",
	"typescript": "javascript",
	"jsx":        "javascript",
	"tsx":        "javascript",
	"json":       "json",
	"json5":      "json",
	"jsonc":      "json",
	"c":          "c",
	"c++":        "c",
	"cpp":        "c",
	"yaml":       "yaml",
	"yml":        "yaml",
}

func compatible(a, b string) bool {
	fa, okA := families[a]
	fb, okB := families[b]
	return okA && okB && fa == fb
}
