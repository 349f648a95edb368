// Package engine chains the lexer, parser, normalizer, optimizer and
// validator for one document.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/gonmc/internal/logging"
	"github.com/yaklabco/gonmc/pkg/ast"
	"github.com/yaklabco/gonmc/pkg/config"
	"github.com/yaklabco/gonmc/pkg/diag"
	"github.com/yaklabco/gonmc/pkg/lexer"
	"github.com/yaklabco/gonmc/pkg/parser"
	"github.com/yaklabco/gonmc/pkg/source"
	"github.com/yaklabco/gonmc/pkg/token"
	"github.com/yaklabco/gonmc/pkg/transform"
	"github.com/yaklabco/gonmc/pkg/validate"
)

// ErrReportFailed is returned by Process when a report-mode run stops at an
// error. The wrapped *parser.Error carries the diagnostic.
var ErrReportFailed = errors.New("report mode failed")

// Stage names a pipeline stage.
type Stage string

// Pipeline stages in execution order.
const (
	StageLex       Stage = "lex"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
	StageOptimize  Stage = "optimize"
	StageValidate  Stage = "validate"
)

// Options configures an Engine.
type Options struct {
	// Mode selects record or report handling of errors.
	Mode parser.Mode

	// MaxDepth bounds nesting. Zero means parser.DefaultMaxDepth.
	MaxDepth int

	// Keywords is the keyword table. The zero value uses the defaults.
	Keywords token.KeywordTable

	// Raw stops after parsing: no normalize, optimize or validate.
	Raw bool
}

// Result is the outcome of processing one document.
type Result struct {
	// File indexes the source for position lookups.
	File *source.File

	// Tokens is the lexer output.
	Tokens []token.Token

	// Root is the final tree. It is nil when a report-mode run failed.
	Root *ast.Node

	// Diagnostics from every stage, ordered by position.
	Diagnostics diag.List
}

// Path returns the document path.
func (r *Result) Path() string {
	if r.File == nil {
		return ""
	}
	return r.File.Path
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return r.Diagnostics.HasErrors()
}

// Engine runs the pipeline. It holds no per-document state and is safe for
// concurrent use.
type Engine struct {
	lexer     *lexer.Lexer
	validator *validate.Validator
	opts      Options
}

// New creates an engine with the given options and validator. A nil
// validator uses the default rules.
func New(opts Options, validator *validate.Validator) *Engine {
	keywords := opts.Keywords
	if keywords.IsZero() {
		keywords = token.DefaultKeywords()
	}
	if validator == nil {
		validator = validate.New(validate.NewDefaultRegistry(), nil)
	}
	return &Engine{
		lexer:     lexer.New(keywords),
		validator: validator,
		opts:      opts,
	}
}

// FromConfig creates an engine from configuration, resolving rules against
// registry.
func FromConfig(cfg *config.Config, registry *validate.Registry) (*Engine, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	mode, err := parser.ParseMode(cfg.Mode)
	if err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if registry == nil {
		registry = validate.NewDefaultRegistry()
	}
	opts := Options{Mode: mode, MaxDepth: cfg.MaxDepth}
	return New(opts, validate.New(registry, cfg)), nil
}

// firstFailure picks the error that rejects a report-mode run: the earlier of
// the first lexical error and the error that aborted the parse. A lexical
// error wins a tie.
func firstFailure(lexDiags diag.List, parseErr error) (diag.Diagnostic, bool) {
	lexFirst, hasLex := lexDiags.Sorted().FirstError()

	var perr *parser.Error
	if !errors.As(parseErr, &perr) {
		return lexFirst, hasLex
	}
	if hasLex && !before(perr.Diagnostic, lexFirst) {
		return lexFirst, true
	}
	return perr.Diagnostic, true
}

func before(a, b diag.Diagnostic) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

// Options returns the engine's options.
func (e *Engine) Options() Options {
	return e.opts
}

// Process runs every stage over content. Cancellation is checked between
// stages.
//
// In report mode the earliest error stops the run: the returned error wraps
// ErrReportFailed and a *parser.Error, and the result holds that single
// diagnostic with a nil Root.
func (e *Engine) Process(ctx context.Context, path string, content []byte) (*Result, error) {
	ctx = logging.With(ctx, logging.FieldPath, path)
	logger := logging.FromContext(ctx)
	res := &Result{File: source.NewFile(path, content)}

	if err := checkContext(ctx, StageLex); err != nil {
		return res, err
	}
	start := time.Now()
	tokens, lexDiags := e.lexer.Tokenize(string(content))
	res.Tokens = tokens
	logger.Debug("stage done",
		logging.FieldStage, StageLex,
		logging.FieldTokens, len(tokens),
		logging.FieldDiags, len(lexDiags),
		logging.FieldElapsed, time.Since(start))

	if err := checkContext(ctx, StageParse); err != nil {
		return res, err
	}
	start = time.Now()
	root, parseDiags, err := parser.Parse(tokens, parser.Options{Mode: e.opts.Mode, MaxDepth: e.opts.MaxDepth})
	if e.opts.Mode == parser.ModeReport {
		if first, ok := firstFailure(lexDiags, err); ok {
			first = first.WithRecovered(false)
			res.Diagnostics = diag.List{first}
			return res, fmt.Errorf("%s: %w: %w", path, ErrReportFailed, &parser.Error{Diagnostic: first})
		}
	} else if err != nil {
		return res, fmt.Errorf("%s: parse: %w", path, err)
	}
	all := append(append(diag.List{}, lexDiags...), parseDiags...)
	logger.Debug("stage done",
		logging.FieldStage, StageParse,
		logging.FieldNodes, ast.Count(root),
		logging.FieldDiags, len(parseDiags),
		logging.FieldElapsed, time.Since(start))

	if e.opts.Raw {
		res.Root = root
		res.Diagnostics = all.Sorted()
		return res, nil
	}

	if err := checkContext(ctx, StageNormalize); err != nil {
		return res, err
	}
	root = transform.Normalize(root)

	if err := checkContext(ctx, StageOptimize); err != nil {
		return res, err
	}
	root = transform.Optimize(root)
	logger.Debug("stage done", logging.FieldStage, StageOptimize, logging.FieldNodes, ast.Count(root))

	if err := checkContext(ctx, StageValidate); err != nil {
		return res, err
	}
	start = time.Now()
	validation := e.validator.Validate(root)
	logger.Debug("stage done",
		logging.FieldStage, StageValidate,
		logging.FieldDiags, len(validation),
		logging.FieldElapsed, time.Since(start))

	res.Root = root
	res.Diagnostics = append(all, validation...).Sorted()
	return res, nil
}

func checkContext(ctx context.Context, stage Stage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("before %s: %w", stage, err)
	}
	return nil
}
