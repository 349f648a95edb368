package validate

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/token"
)

// MetaVersionRule checks that every meta block declares a version.
type MetaVersionRule struct {
	BaseRule
}

// NewMetaVersionRule creates the meta-version rule.
func NewMetaVersionRule() *MetaVersionRule {
	return &MetaVersionRule{
		BaseRule: NewBaseRule(
			"NMC001",
			"meta-version",
			"Every meta block declares a version key, plus any keys listed in the required_keys option",
			diag.CategoryMissingMetadata,
		),
	}
}

// DefaultSeverity returns error.
func (r *MetaVersionRule) DefaultSeverity() diag.Severity {
	return diag.SeverityError
}

// Apply checks each meta block for the required keys.
func (r *MetaVersionRule) Apply(rc *RuleContext) []diag.Diagnostic {
	required := []string{"version"}
	for _, key := range rc.OptionStringSlice("required_keys", nil) {
		if !slices.Contains(required, key) {
			required = append(required, key)
		}
	}

	var pattern *regexp.Regexp
	if expr := rc.OptionString("version_pattern", ""); expr != "" {
		// An invalid pattern disables the check rather than failing the run.
		pattern, _ = regexp.Compile(expr)
	}

	v := &metaVisitor{}
	ast.Accept(rc.Root, v)

	var out []diag.Diagnostic
	for _, meta := range v.metas {
		for _, key := range required {
			if _, ok := meta.Pair(key); !ok {
				out = append(out, rc.Report(meta, "meta block is missing required key %q", key))
			}
		}
		if version, ok := meta.Pair("version"); ok && pattern != nil && !pattern.MatchString(version) {
			out = append(out, rc.Report(meta, "version %q does not match %q", version, pattern))
		}
	}
	return out
}

type metaVisitor struct {
	ast.BaseVisitor
	metas []*ast.Node
}

func (v *metaVisitor) VisitMeta(n *ast.Node) ast.Action {
	v.metas = append(v.metas, n)
	return ast.Skip
}

// DirectiveNameRule checks that directives are named.
type DirectiveNameRule struct {
	BaseRule
}

// NewDirectiveNameRule creates the directive-name rule.
func NewDirectiveNameRule() *DirectiveNameRule {
	return &DirectiveNameRule{
		BaseRule: NewBaseRule(
			"NMC002",
			"directive-name",
			"Custom directives have a non-empty name after the x- prefix, optionally matching the pattern option or listed in the allowed option",
			diag.CategoryDirectiveName,
		),
	}
}

// DefaultSeverity returns error.
func (r *DirectiveNameRule) DefaultSeverity() diag.Severity {
	return diag.SeverityError
}

// Apply reports unnamed directives and names rejected by the options.
func (r *DirectiveNameRule) Apply(rc *RuleContext) []diag.Diagnostic {
	var pattern *regexp.Regexp
	if expr := rc.OptionString("pattern", ""); expr != "" {
		pattern, _ = regexp.Compile(expr)
	}
	allowed := rc.OptionStringSlice("allowed", nil)

	v := &directiveVisitor{}
	ast.Accept(rc.Root, v)

	var out []diag.Diagnostic
	for _, n := range v.unnamed {
		out = append(out, rc.Report(n, "directive name is empty after %q", token.DirectivePrefix))
	}
	for _, n := range v.named {
		switch {
		case pattern != nil && !pattern.MatchString(n.Name):
			out = append(out, rc.Report(n, "directive name %q does not match %q", n.Name, pattern))
		case len(allowed) > 0 && !slices.Contains(allowed, n.Name):
			out = append(out, rc.Report(n, "unknown directive %q", n.Name))
		}
	}
	return out
}

type directiveVisitor struct {
	ast.BaseVisitor
	named   []*ast.Node
	unnamed []*ast.Node
}

func (v *directiveVisitor) VisitDirective(n *ast.Node) ast.Action {
	if n.Name == "" {
		v.unnamed = append(v.unnamed, n)
	} else {
		v.named = append(v.named, n)
	}
	return ast.Descend
}

func (v *directiveVisitor) VisitInvalid(n *ast.Node) ast.Action {
	if n.Name == string(diag.CategoryDirectiveName) {
		v.unnamed = append(v.unnamed, n)
	}
	return ast.Descend
}

// TableShapeRule checks that every row of a table has the same number of
// cells.
type TableShapeRule struct {
	BaseRule
}

// NewTableShapeRule creates the table-shape rule.
func NewTableShapeRule() *TableShapeRule {
	return &TableShapeRule{
		BaseRule: NewBaseRule(
			"NMC003",
			"table-shape",
			"All rows of a table have the same number of cells as the first row",
			diag.CategoryTableShape,
		),
	}
}

// Apply compares each row with the table's first row.
func (r *TableShapeRule) Apply(rc *RuleContext) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, table := range ast.FindByKind(rc.Root, ast.NodeTable) {
		want := -1
		for _, row := range table.Children {
			if row.Kind != ast.NodeTableRow {
				continue
			}
			if want < 0 {
				want = len(row.Cells)
				continue
			}
			if len(row.Cells) != want {
				out = append(out, rc.Report(row, "row has %d cells, expected %d", len(row.Cells), want))
			}
		}
	}
	return out
}

// FigureSourceRule checks that figures name an image source.
type FigureSourceRule struct {
	BaseRule
}

// NewFigureSourceRule creates the figure-source rule.
func NewFigureSourceRule() *FigureSourceRule {
	return &FigureSourceRule{
		BaseRule: NewBaseRule(
			"NMC004",
			"figure-source",
			"Every figure has a src entry",
			diag.CategoryFigureSource,
		),
	}
}

// Apply reports figures without a source.
func (r *FigureSourceRule) Apply(rc *RuleContext) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, fig := range ast.FindByKind(rc.Root, ast.NodeFigure) {
		if strings.TrimSpace(fig.URL) == "" {
			out = append(out, rc.Report(fig, "figure has no src"))
		}
	}
	return out
}

// DefinitionPairRule checks that definition terms have descriptions.
type DefinitionPairRule struct {
	BaseRule
}

// NewDefinitionPairRule creates the definition-pair rule.
func NewDefinitionPairRule() *DefinitionPairRule {
	return &DefinitionPairRule{
		BaseRule: NewBaseRule(
			"NMC005",
			"definition-pair",
			"Every term in a def-list is followed by at least one description",
			diag.CategoryIncompleteDefinition,
		),
	}
}

// Apply walks each def-list in order, pairing terms with descriptions.
func (r *DefinitionPairRule) Apply(rc *RuleContext) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, dl := range ast.FindByKind(rc.Root, ast.NodeDefList) {
		var pending *ast.Node
		seenTerm := false
		for _, child := range dl.Children {
			switch child.Kind {
			case ast.NodeDefTerm:
				if pending != nil {
					out = append(out, rc.Report(pending, "term %q has no description", ast.PlainText(pending)))
				}
				pending = child
				seenTerm = true
			case ast.NodeDefDesc:
				if !seenTerm {
					out = append(out, rc.Report(child, "description has no term"))
				}
				pending = nil
			default:
			}
		}
		if pending != nil {
			out = append(out, rc.Report(pending, "term %q has no description", ast.PlainText(pending)))
		}
	}
	return out
}

// MetaRequiredRule checks that a document carries a meta block.
type MetaRequiredRule struct {
	BaseRule
}

// NewMetaRequiredRule creates the meta-required rule.
func NewMetaRequiredRule() *MetaRequiredRule {
	return &MetaRequiredRule{
		BaseRule: NewBaseRule(
			"NMC006",
			"meta-required",
			"The document contains a meta block",
			diag.CategoryMissingMetadata,
		),
	}
}

// DefaultEnabled returns false; this rule is opt-in.
func (r *MetaRequiredRule) DefaultEnabled() bool {
	return false
}

// Apply reports documents without any meta block.
func (r *MetaRequiredRule) Apply(rc *RuleContext) []diag.Diagnostic {
	if ast.FindFirst(rc.Root, func(n *ast.Node) bool { return n.Kind == ast.NodeMeta }) != nil {
		return nil
	}
	return []diag.Diagnostic{rc.Report(rc.Root, "document has no meta block")}
}
