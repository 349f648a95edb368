//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/gonmc"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"f":   Test.Fuzz,
	"l":   Lint.Default,
	"fmt": Lint.Fmt,
}

type (
	Test st.Namespace
	Lint st.Namespace
)

// Build compiles gonmc into bin/ when a source file is newer than the binary.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/gonmc")
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gonmc")
}

// Clean removes bin/ and the coverage profile.
func Clean() error {
	return errors.Join(sh.Rm("bin"), sh.Rm("coverage.out"))
}

// Gate is the CI entry point: formatting, lint, tests, then a short fuzz run.
func Gate() error {
	if err := os.Setenv("FUZZTIME", cmp.Or(os.Getenv("FUZZTIME"), "10s")); err != nil {
		return err
	}
	st.SerialDeps(Lint.FmtCheck, Lint.CI, Test.Default, Test.Fuzz, Test.Smoke)
	return nil
}

// Default runs the test suite through gotestsum with the race detector.
func (Test) Default() error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic",
		"./...",
	)
}

// Fuzz runs each fuzz target for FUZZTIME (default 30s).
func (Test) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("FUZZTIME"), "30s")
	targets := []struct{ name, pkg string }{
		{"FuzzTokenize", "./pkg/lexer"},
		{"FuzzParse", "./pkg/parser"},
	}
	for _, tgt := range targets {
		fmt.Printf("fuzzing %s for %s\n", tgt.name, fuzzTime)
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+tgt.name+"$", "-fuzztime="+fuzzTime, tgt.pkg); err != nil {
			return fmt.Errorf("fuzz %s: %w", tgt.name, err)
		}
	}
	return nil
}

// Smoke checks every .nmc document under testdata with the built binary.
func (Test) Smoke() error {
	st.Deps(Build)
	if _, err := os.Stat("testdata"); errors.Is(err, fs.ErrNotExist) {
		fmt.Println("no testdata directory, skipping")
		return nil
	}
	return sh.RunV(binary, "check", "--no-config", "--summary", "testdata")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without fixing anything.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt rewrites Go files with gofmt.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when gofmt would change a file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// ldflags injects version, commit and build date into cmd/gonmc.
func ldflags() string {
	git := func(args ...string) string {
		out, err := sh.Output("git", args...)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(out)
	}
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339))
}
