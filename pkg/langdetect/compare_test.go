package langdetect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/gonmc/pkg/langdetect"
)

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"py":       "python",
		"Python":   "python",
		"golang":   "go",
		"sh":       "bash",
		"js":       "javascript",
		"  yaml  ": "yaml",
		"":         "",
		"made-up":  "made-up",
	}
	for tag, want := range tests {
		assert.Equal(t, want, langdetect.Canonical(tag), "tag %q", tag)
	}
}

func TestAgrees(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		declared string
		code     string
		detected string
		agrees   bool
	}{
		{"matching tag", "python", "def f():\n    pass", "python", true},
		{"alias tag", "py", "def f():\n    pass", "python", true},
		{"wrong tag", "go", "def f():\n    pass", "python", false},
		{"undetectable body", "go", "hello there", "text", true},
		{"no tag", "", "package main", "go", true},
		{"shell dialects", "sh", "#!/bin/bash\necho hi", "bash", true},
		{"javascript superset", "typescript", "const x = () => 1;", "javascript", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			detected, ok := langdetect.Agrees(tt.declared, []byte(tt.code))
			assert.Equal(t, tt.detected, detected)
			assert.Equal(t, tt.agrees, ok)
		})
	}
}
