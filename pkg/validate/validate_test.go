package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/parser"
	"github.com/yaklabco/gonmc/pkg/transform"
	"github.com/yaklabco/gonmc/pkg/validate"
)

func tree(t *testing.T, src string) *ast.Node {
	t.Helper()
	tokens, _ := lexer.Tokenize(src)
	root, _, err := parser.Parse(tokens, parser.DefaultOptions())
	require.NoError(t, err)
	return transform.Optimize(transform.Normalize(root))
}

func ptr[T any](v T) *T {
	return &v
}

// only builds a config that enables exactly one rule with the given options.
func only(id string, options map[string]any) *config.Config {
	cfg := config.NewConfig()
	for _, other := range validate.NewDefaultRegistry().IDs() {
		cfg.Rules[other] = config.RuleConfig{Enabled: ptr(other == id)}
	}
	cfg.Rules[id] = config.RuleConfig{Enabled: ptr(true), Options: options}
	return cfg
}

func check(t *testing.T, cfg *config.Config, src string) diag.List {
	t.Helper()
	return validate.New(validate.NewDefaultRegistry(), cfg).Validate(tree(t, src))
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	reg := validate.NewDefaultRegistry()
	assert.Equal(t,
		[]string{"NMC001", "NMC002", "NMC003", "NMC004", "NMC005", "NMC006", "NMC007"},
		reg.IDs())

	for _, key := range []string{"NMC003", "nmc003", "table-shape", "Table-Shape"} {
		rule, ok := reg.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, "NMC003", rule.ID())
	}

	_, ok := reg.Get("NMC999")
	assert.False(t, ok)
}

func TestRegistryReplace(t *testing.T) {
	t.Parallel()

	reg := validate.NewRegistry()
	reg.Register(validate.NewTableShapeRule())
	reg.Register(validate.NewTableShapeRule())
	assert.Len(t, reg.Rules(), 1)
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	resolved := validate.ResolveRules(validate.NewDefaultRegistry(), nil)

	ids := make([]string, 0, len(resolved))
	severities := map[string]diag.Severity{}
	for _, rr := range resolved {
		ids = append(ids, rr.Rule.ID())
		severities[rr.Rule.ID()] = rr.Severity
	}
	assert.Equal(t, []string{"NMC001", "NMC002", "NMC003", "NMC004", "NMC005"}, ids)
	assert.Equal(t, diag.SeverityError, severities["NMC001"])
	assert.Equal(t, diag.SeverityError, severities["NMC002"])
	assert.Equal(t, diag.SeverityWarning, severities["NMC003"])
}

func TestResolveConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.SeverityDefault = "error"
	cfg.Rules["NMC003"] = config.RuleConfig{Enabled: ptr(false)}
	cfg.Rules["meta-required"] = config.RuleConfig{Enabled: ptr(true), Severity: ptr("warning")}
	cfg.EnableRules = []string{"nmc007"}
	cfg.DisableRules = []string{"Meta-Version"}

	resolved := validate.ResolveRules(validate.NewDefaultRegistry(), cfg)

	got := map[string]diag.Severity{}
	for _, rr := range resolved {
		got[rr.Rule.ID()] = rr.Severity
	}
	assert.Equal(t, map[string]diag.Severity{
		"NMC002": diag.SeverityError,
		"NMC004": diag.SeverityError,
		"NMC005": diag.SeverityError,
		"NMC006": diag.SeverityWarning,
		"NMC007": diag.SeverityError,
	}, got)
}

func TestMetaVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		options map[string]any
		want    int
	}{
		{"has version", "meta: title=A, version=1.0\n", nil, 0},
		{"missing version", "meta: title=A\n", nil, 1},
		{"every block checked", "meta: version=1\nmeta: title=B\n", nil, 1},
		{"no meta block", "text: hi\n", nil, 0},
		{"required keys", "meta: version=1\n", map[string]any{"required_keys": []any{"author", "title"}}, 2},
		{"version pattern", "meta: version=one\n", map[string]any{"version_pattern": `^\d+(\.\d+)*$`}, 1},
		{"version pattern ok", "meta: version=1.2\n", map[string]any{"version_pattern": `^\d+(\.\d+)*$`}, 0},
		{"bad pattern ignored", "meta: version=1\n", map[string]any{"version_pattern": `(`}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := check(t, only("NMC001", tt.options), tt.src)
			require.Len(t, diags, tt.want)
			for _, d := range diags {
				assert.Equal(t, "NMC001", d.Rule)
				assert.Equal(t, diag.SeverityError, d.Severity)
				assert.Equal(t, diag.CategoryMissingMetadata, d.Category)
			}
		})
	}
}

func TestMetaVersionPosition(t *testing.T) {
	t.Parallel()

	diags := check(t, only("NMC001", nil), "text: intro\nmeta: title=A\n")
	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 1, diags[0].Column)
}

func TestDirectiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		options map[string]any
		want    int
	}{
		{"named", "x-custom: value\n", nil, 0},
		{"empty name", "x-custom: value\nx-: value\n", nil, 1},
		{"allowed list", "x-custom: a\nx-other: b\n", map[string]any{"allowed": []any{"custom"}}, 1},
		{"pattern", "x-Custom: a\nx-custom: b\n", map[string]any{"pattern": `^[a-z]+$`}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := check(t, only("NMC002", tt.options), tt.src)
			require.Len(t, diags, tt.want)
			for _, d := range diags {
				assert.Equal(t, diag.CategoryDirectiveName, d.Category)
				assert.Equal(t, diag.SeverityError, d.Severity)
			}
		})
	}
}

func TestDirectiveNameReportsInvalidNode(t *testing.T) {
	t.Parallel()

	diags := check(t, nil, "x-custom: value\nx-: value\n")

	require.Len(t, diags, 1)
	assert.Equal(t, "NMC002", diags[0].Rule)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, 1, diags[0].Column)
}

func TestTableShape(t *testing.T) {
	t.Parallel()

	diags := check(t, nil, "table:\n  - a, b\n  - c, d\n  - e\n  - f, g, h\n")

	require.Len(t, diags, 2)
	assert.Equal(t, 4, diags[0].Line)
	assert.Equal(t, 5, diags[1].Line)
	assert.Equal(t, diag.SeverityWarning, diags[0].Severity)
	assert.Equal(t, diag.CategoryTableShape, diags[0].Category)
	assert.Contains(t, diags[0].Message, "1 cells, expected 2")
}

func TestFigureSource(t *testing.T) {
	t.Parallel()

	assert.Empty(t, check(t, nil, "figure:\n  src: a.png\n"))

	diags := check(t, nil, "figure: A caption\n")
	require.Len(t, diags, 1)
	assert.Equal(t, "NMC004", diags[0].Rule)
	assert.Equal(t, diag.CategoryFigureSource, diags[0].Category)
}

func TestDefinitionPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		lines []int
	}{
		{"paired", "def-list:\n  dt: A\n  dd: a\n", nil},
		{"term without description", "def-list:\n  dt: A\n  dt: B\n  dd: b\n", []int{2}},
		{"trailing term", "def-list:\n  dt: A\n  dd: a\n  dt: B\n", []int{4}},
		{"description without term", "def-list:\n  dd: a\n", []int{2}},
		{"several descriptions", "def-list:\n  dt: A\n  dd: a\n  dd: b\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			diags := check(t, nil, tt.src)
			lines := make([]int, 0, len(diags))
			for _, d := range diags {
				assert.Equal(t, diag.CategoryIncompleteDefinition, d.Category)
				lines = append(lines, d.Line)
			}
			if tt.lines == nil {
				assert.Empty(t, lines)
			} else {
				assert.Equal(t, tt.lines, lines)
			}
		})
	}
}

func TestMetaRequired(t *testing.T) {
	t.Parallel()

	assert.Empty(t, check(t, nil, "text: hi\n"), "disabled by default")

	diags := check(t, only("NMC006", nil), "text: hi\n")
	require.Len(t, diags, 1)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, 1, diags[0].Column)

	assert.Empty(t, check(t, only("NMC006", nil), "meta: version=1\n"))
}

func TestCodeLanguage(t *testing.T) {
	t.Parallel()

	src := "code: go\n  def f():\n      pass\n"
	assert.Empty(t, check(t, nil, src), "disabled by default")

	diags := check(t, only("NMC007", nil), src)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.CategoryCodeLanguage, diags[0].Category)
	assert.Contains(t, diags[0].Message, "python")

	assert.Empty(t, check(t, only("NMC007", nil), "code: python\n  def f():\n      pass\n"))
	assert.Empty(t, check(t, only("NMC007", map[string]any{"min_lines": 5}), src))
}

func TestValidateSortsByPosition(t *testing.T) {
	t.Parallel()

	src := "figure: late\nmeta: title=A\ntable:\n  - a, b\n  - c\n"
	diags := check(t, nil, src)

	require.Len(t, diags, 3)
	assert.Equal(t, []string{"NMC004", "NMC001", "NMC003"},
		[]string{diags[0].Rule, diags[1].Rule, diags[2].Rule})
}

func TestValidateDoesNotModifyTree(t *testing.T) {
	t.Parallel()

	root := tree(t, "meta: title=A\nx-: v\ntable:\n  - a\n  - b, c\ndef-list:\n  dt: A\n")
	before := ast.Clone(root)

	_ = validate.Validate(root)
	assert.True(t, ast.Equal(before, root))
}

func TestValidateNil(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.Validate(nil))
}
