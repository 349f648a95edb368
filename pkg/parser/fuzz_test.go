package parser_test

import (
	"errors"
	"testing"

	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/parser"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"header: Title\n  text: Hello\n",
		"list:\n  - Item 1\n  Item 2\n  - Item 3\n",
		"code: python\n  def f():\n      pass\n",
		"text: This has @b(unclosed style\n",
		"x-: value\n",
		"text:\n>>>\nraw\n<<<\n",
		"table:\n- row: a, b\nrow: c\n",
		"def-list:\n  dt: a\n  dd:\n",
		"figure:\n  src:\n  oops\n",
		"meta: a=1, b\n  =2\n",
		"<<<\n>>>\n",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		tokens, _ := lexer.Tokenize(src)

		root, _, err := parser.Parse(tokens, parser.Options{Mode: parser.ModeRecord, MaxDepth: 32})
		if err != nil {
			t.Fatalf("record mode returned an error: %v", err)
		}
		if root == nil || root.Kind != ast.NodeDocument {
			t.Fatalf("record mode must return a document")
		}

		root, diags, err := parser.Parse(tokens, parser.Options{Mode: parser.ModeReport, MaxDepth: 32})
		switch {
		case err == nil:
			if root == nil {
				t.Fatalf("clean report parse returned no tree")
			}
			if diags.HasErrors() {
				t.Fatalf("clean report parse returned errors: %v", diags)
			}
		case errors.Is(err, parser.ErrReport):
			if root != nil || len(diags) != 1 {
				t.Fatalf("rejected parse returned tree=%v diags=%d", root != nil, len(diags))
			}
		default:
			t.Fatalf("unexpected error type: %v", err)
		}
	})
}
