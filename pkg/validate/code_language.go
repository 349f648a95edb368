package validate

import (
	"strings"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/langdetect"
)

// CodeLanguageRule compares a code block's declared language with the
// language detected from its body.
type CodeLanguageRule struct {
	BaseRule
}

// NewCodeLanguageRule creates the code-language rule.
func NewCodeLanguageRule() *CodeLanguageRule {
	return &CodeLanguageRule{
		BaseRule: NewBaseRule(
			"NMC007",
			"code-language",
			"A code block's declared language agrees with the language detected from its content",
			diag.CategoryCodeLanguage,
		),
	}
}

// DefaultEnabled returns false; detection is heuristic.
func (r *CodeLanguageRule) DefaultEnabled() bool {
	return false
}

// Apply checks tagged code blocks with at least min_lines lines.
func (r *CodeLanguageRule) Apply(rc *RuleContext) []diag.Diagnostic {
	minLines := rc.OptionInt("min_lines", 1)

	var out []diag.Diagnostic
	for _, code := range ast.FindByKind(rc.Root, ast.NodeCode) {
		if code.Lang == "" || len(code.Lines) < minLines {
			continue
		}
		body := []byte(strings.Join(code.Lines, "\n"))
		if detected, ok := langdetect.Agrees(code.Lang, body); !ok {
			out = append(out, rc.Report(code, "code block is tagged %q but looks like %s", code.Lang, detected))
		}
	}
	return out
}
