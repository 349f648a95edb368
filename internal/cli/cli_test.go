package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/internal/cli"
	"github.com/yaklabco/gonmc/pkg/config"
)

const (
	cleanDoc   = "meta: title=A, version=1.0\ntext: hello\n"
	errorDoc   = "meta: title=A\n"
	warningDoc = "meta: version=1\ntable:\n  - a, b\n  - c\n"
	brokenList = "meta: version=1\nlist:\n  - one\n  two\n"
)

type execResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version", Commit: "abc123", Date: "today"})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{Version: "test-version"})
	require.NotNil(t, cmd)
	assert.Equal(t, "gonmc", cmd.Use)
	assert.Equal(t, "test-version", cmd.Version)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	for _, name := range []string{"check", "tokens", "ast", "rules", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, sub.Name())
		}
	}
}

func TestRootCommandPersistentFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{})
	for _, name := range []string{"debug", "config", "no-config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestHelpOutput(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "check", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Usage:")
	assert.Contains(t, res.stdout, "--strict")
	assert.Contains(t, res.stdout, "Global Flags:")
	assert.Contains(t, res.stdout, "Exit Codes:")
	assert.Contains(t, res.stdout, "65  invalid configuration")

	res = execute(t, "", "--help")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Commands:")
	assert.Contains(t, res.stdout, "tokens")
	assert.NotContains(t, res.stdout, "Exit Codes:")
	assert.Contains(t, res.stdout, "Environment:")
	assert.Contains(t, res.stdout, "GONMC_MODE")
}

func TestCheckExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    string
		strict bool
		want   int
	}{
		{"clean", cleanDoc, false, cli.ExitSuccess},
		{"errors", errorDoc, false, cli.ExitErrors},
		{"warnings", warningDoc, false, cli.ExitSuccess},
		{"warnings strict", warningDoc, true, cli.ExitWarnings},
		{"errors strict", errorDoc, true, cli.ExitErrors},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeDoc(t, t.TempDir(), "doc.nmc", tt.doc)
			args := []string{"check", "--no-config", "--color", "never", path}
			if tt.strict {
				args = append(args, "--strict")
			}

			res := execute(t, "", args...)
			assert.Equal(t, tt.want, cli.ExitCode(res.err))
			if tt.want != cli.ExitSuccess {
				assert.ErrorIs(t, res.err, cli.ErrIssuesFound)
			}
		})
	}
}

func TestCheckTextOutput(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "doc.nmc", errorDoc)
	res := execute(t, "", "check", "--no-config", "--color", "never", "--rule-format", "id", path)

	require.Error(t, res.err)
	assert.Contains(t, res.stdout, ":1:1")
	assert.Contains(t, res.stdout, "(NMC001)")
	assert.Contains(t, res.stdout, "meta: title=A")
}

func TestCheckJSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.nmc", cleanDoc)
	writeDoc(t, dir, "b.nmc", brokenList)

	res := execute(t, "", "check", "--no-config", "--format", "json", dir)
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))

	var out struct {
		Files []struct {
			Path        string `json:"path"`
			Diagnostics []struct {
				Category  string `json:"category"`
				Recovered bool   `json:"recovered"`
				Line      int    `json:"line"`
			} `json:"diagnostics"`
		} `json:"files"`
		Summary struct {
			FilesChecked int `json:"filesChecked"`
			TotalIssues  int `json:"totalIssues"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out), res.stdout)

	assert.Equal(t, 2, out.Summary.FilesChecked)
	assert.Equal(t, 1, out.Summary.TotalIssues)
	require.Len(t, out.Files, 2)
	require.Len(t, out.Files[1].Diagnostics, 1)
	assert.Equal(t, "malformed-list-item", out.Files[1].Diagnostics[0].Category)
	assert.True(t, out.Files[1].Diagnostics[0].Recovered)
	assert.Equal(t, 4, out.Files[1].Diagnostics[0].Line)
}

func TestCheckReportModeRejects(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "doc.nmc", "list:\n  Item\n")
	res := execute(t, "", "check", "--no-config", "--color", "never", "--report", path)

	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
	assert.Contains(t, res.stdout, "rejected")
}

func TestCheckStdin(t *testing.T) {
	t.Parallel()

	res := execute(t, errorDoc, "check", "--no-config", "--color", "never", "-")
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
	assert.Contains(t, res.stdout, "<stdin>")

	res = execute(t, cleanDoc, "check", "--no-config", "-")
	assert.NoError(t, res.err)
}

func TestCheckSummary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeDoc(t, dir, "a.nmc", errorDoc)
	writeDoc(t, dir, "b.nmc", brokenList)

	res := execute(t, "", "check", "--no-config", "--color", "never", "--summary", "--sort", "alpha", dir)
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
	assert.Contains(t, res.stdout, "Check failed with errors")
	assert.Contains(t, res.stdout, "By source")
	assert.Contains(t, res.stdout, "NMC001/meta-version")
	assert.Contains(t, res.stdout, "malformed-list-item")
	assert.Contains(t, res.stdout, "By file")

	res = execute(t, "", "check", "--no-config", "--sort", "size", dir)
	require.Error(t, res.err)
	assert.NotErrorIs(t, res.err, cli.ErrIssuesFound)
}

func TestCheckDisableRule(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "doc.nmc", errorDoc)
	res := execute(t, "", "check", "--no-config", "--disable", "meta-version", path)
	assert.NoError(t, res.err)
}

func TestCheckUnreadableFile(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.nmc")
	res := execute(t, "", "check", "--no-config", "--color", "never", missing)
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
}

func TestCheckInvalidFormat(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "doc.nmc", cleanDoc)
	res := execute(t, "", "check", "--no-config", "--format", "xml", path)
	require.Error(t, res.err)
	assert.NotErrorIs(t, res.err, cli.ErrIssuesFound)
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
}

func TestCheckConfigError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeDoc(t, dir, "bad.yml", "mode: sideways\n")
	path := writeDoc(t, dir, "doc.nmc", cleanDoc)

	res := execute(t, "", "check", "--no-config", "--config", cfgPath, path)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(res.err))
}

func TestCheckExplicitConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeDoc(t, dir, "gonmc.yml", "rules:\n  NMC001:\n    enabled: false\n")
	path := writeDoc(t, dir, "doc.nmc", errorDoc)

	res := execute(t, "", "check", "--no-config", "--config", cfgPath, path)
	assert.NoError(t, res.err)
}

func TestTokens(t *testing.T) {
	t.Parallel()

	res := execute(t, "header: Title\n", "tokens", "--color", "never", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "KIND")
	assert.Contains(t, res.stdout, "Header")
	assert.Contains(t, res.stdout, `"Title"`)
}

func TestTokensJSON(t *testing.T) {
	t.Parallel()

	path := writeDoc(t, t.TempDir(), "doc.nmc", "header: Title\n")
	res := execute(t, "", "tokens", "--format", "json", path)
	require.NoError(t, res.err)

	var tokens []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
		Line int    `json:"line"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &tokens))
	require.NotEmpty(t, tokens)
	assert.Equal(t, "Header", tokens[0].Kind)
	assert.Equal(t, 1, tokens[0].Line)
}

func TestTokensRequiresInput(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "tokens")
	assert.Error(t, res.err)

	res = execute(t, "", "tokens", "--format", "xml", "-")
	assert.Error(t, res.err)
}

func TestAST(t *testing.T) {
	t.Parallel()

	res := execute(t, cleanDoc, "ast", "--no-config", "--no-pos", "-")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "kind: Document")
	assert.NotContains(t, res.stdout, "pos:")
}

func TestASTJSONWithDiagnostics(t *testing.T) {
	t.Parallel()

	res := execute(t, brokenList, "ast", "--no-config", "--format", "json", "--color", "never", "-")
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
	assert.Contains(t, res.stderr, "malformed-list-item")

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &tree))
	assert.Equal(t, "Document", tree["kind"])
}

func TestASTReportMode(t *testing.T) {
	t.Parallel()

	res := execute(t, "list:\n  Item\n", "ast", "--no-config", "--report", "--color", "never", "-")
	assert.Equal(t, cli.ExitErrors, cli.ExitCode(res.err))
	assert.Empty(t, res.stdout)
	assert.NotEmpty(t, res.stderr)
}

func TestRulesJSON(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "rules", "--no-config", "--format", "json")
	require.NoError(t, res.err)

	var rules []struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Severity string `json:"severity"`
		Enabled  bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &rules))
	require.Len(t, rules, 7)
	assert.Equal(t, "NMC001", rules[0].ID)
	assert.True(t, rules[0].Enabled)
	assert.Equal(t, "NMC007", rules[6].ID)
	assert.False(t, rules[6].Enabled)
}

func TestRulesText(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "rules", "--no-config", "--color", "never", "--rule-format", "id")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "RULE")
	assert.Contains(t, res.stdout, "NMC003")
	assert.Contains(t, res.stdout, "warning")
}

func TestInit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "gonmc.yml")

	res := execute(t, "", "init", "--output", out)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "created configuration file")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.ModeRecord, cfg.Mode)

	res = execute(t, "", "init", "--output", out)
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "already exists")

	res = execute(t, "", "init", "--output", out, "--force", "--full")
	require.NoError(t, res.err)
}

func TestInitTOML(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "gonmc.toml")
	res := execute(t, "", "init", "--format", "toml", "--full", "--output", out)
	require.NoError(t, res.err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	_, err = config.FromTOML(data)
	require.NoError(t, err)

	res = execute(t, "", "init", "--format", "json", "--output", out)
	assert.Error(t, res.err)
}

func TestVersion(t *testing.T) {
	t.Parallel()

	res := execute(t, "", "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "test-version")
	assert.Contains(t, res.stdout, "abc123")
}
