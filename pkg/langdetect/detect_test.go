package langdetect_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/langdetect"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/parser"
)

// codeBlock parses src and returns its first code block's tag and body, as
// the code-language rule sees them.
func codeBlock(t *testing.T, src string) (string, []byte) {
	t.Helper()

	tokens, _ := lexer.Tokenize(src)
	root, _, err := parser.Parse(tokens, parser.DefaultOptions())
	require.NoError(t, err)

	blocks := ast.FindByKind(root, ast.NodeCode)
	require.NotEmpty(t, blocks, "no code block in %q", src)
	return blocks[0].Lang, []byte(strings.Join(blocks[0].Lines, "\n"))
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"go", "code: go\n  package shapes\n\n  func Area() int { return 0 }\n", "go"},
		{"python", "code: python\n  def area(r):\n      return 3.14 * r * r\n", "python"},
		{"shell shebang", "code: sh\n  #!/bin/sh\n  echo $HOME\n", "bash"},
		{"json", "code: json\n  {\"name\": \"gonmc\", \"depth\": 3}\n", "json"},
		{"yaml", "code: yaml\n  name: gonmc\n  mode: report\n  rules:\n    - NMC001\n", "yaml"},
		{"sql", "code: sql\n  SELECT title FROM docs WHERE version = 1;\n", "sql"},
		{"dockerfile", "code: dockerfile\n  FROM golang:1.25\n  RUN go build ./...\n", "dockerfile"},
		{"rust", "code: rust\n  fn main() {\n      println!(\"hi\");\n  }\n", "rust"},
		{"javascript", "code: js\n  const area = (r) => r * r;\n", "javascript"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, body := codeBlock(t, tt.src)
			assert.Equal(t, tt.want, langdetect.Detect(body))
		})
	}
}

func TestDetectEmptyBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, langdetect.Unknown, langdetect.Detect(nil))
	assert.Equal(t, langdetect.Unknown, langdetect.Detect([]byte("  \n\n  ")))
}

func TestCodeBlockTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		src    string
		agrees bool
	}{
		{"alias tag", "code: py\n  def f():\n      pass\n", true},
		{"go alias", "code: golang\n  package main\n", true},
		{"yaml alias", "code: yml\n  a: 1\n  b: 2\n", true},
		{"shell family", "code: zsh\n  #!/bin/bash\n  echo hi\n", true},
		{"typescript superset", "code: ts\n  const x = () => 1;\n", true},
		{"mismatch", "code: go\n  def f():\n      pass\n", false},
		{"json tagged yaml", "code: json\n  a: 1\n  b: 2\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag, body := codeBlock(t, tt.src)
			_, ok := langdetect.Agrees(tag, body)
			assert.Equal(t, tt.agrees, ok)
		})
	}
}
