// Package diag defines the diagnostics produced by every pipeline stage.
//
// A Diagnostic is plain data. Stages append to an ordered List and never drop
// entries; the Go error type is reserved for report-mode failures and I/O.
package diag

import (
	"cmp"
	"fmt"
	"slices"
)

// Severity is the importance of a diagnostic.
type Severity uint8

const (
	// SeverityError marks input that violates the grammar or a required rule.
	SeverityError Severity = iota
	// SeverityWarning marks input that is accepted but probably unintended.
	SeverityWarning
)

// String returns the lower-case severity name used in reports.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses "error" or "warning".
func ParseSeverity(text string) (Severity, bool) {
	switch text {
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	default:
		return SeverityWarning, false
	}
}

// Class groups categories into the error taxonomy.
type Class uint8

const (
	ClassLexical Class = iota
	ClassSyntactic
	ClassValidation
	ClassLimit
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassLexical:
		return "lexical"
	case ClassSyntactic:
		return "syntactic"
	case ClassValidation:
		return "validation"
	case ClassLimit:
		return "limit"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// Category identifies what kind of problem a diagnostic describes.
// The string values are part of the stable output contract.
type Category string

const (
	CategoryIndentation          Category = "indentation"
	CategoryUnterminatedBlock    Category = "unterminated-block"
	CategoryUnknownEscape        Category = "unknown-escape"
	CategoryMissingContent       Category = "missing-content"
	CategoryMalformedListItem    Category = "malformed-list-item"
	CategoryUnexpectedToken      Category = "unexpected-token"
	CategoryUnclosedDelimiter    Category = "unclosed-delimiter"
	CategoryMisalignedDelimiter  Category = "misaligned-delimiter"
	CategoryNestingTooDeep       Category = "nesting-too-deep"
	CategoryMissingMetadata      Category = "missing-metadata"
	CategoryDirectiveName        Category = "directive-name"
	CategoryTableShape           Category = "table-shape"
	CategoryIncompleteDefinition Category = "incomplete-definition"
	CategoryFigureSource         Category = "figure-source"
	CategoryCodeLanguage         Category = "code-language"
)

// Class reports the taxonomy class of the category.
func (c Category) Class() Class {
	switch c {
	case CategoryIndentation, CategoryUnterminatedBlock, CategoryUnknownEscape:
		return ClassLexical
	case CategoryMissingContent, CategoryMalformedListItem, CategoryUnexpectedToken,
		CategoryUnclosedDelimiter, CategoryMisalignedDelimiter:
		return ClassSyntactic
	case CategoryNestingTooDeep:
		return ClassLimit
	case CategoryMissingMetadata, CategoryDirectiveName, CategoryTableShape,
		CategoryIncompleteDefinition, CategoryFigureSource, CategoryCodeLanguage:
		return ClassValidation
	default:
		return ClassValidation
	}
}

// Diagnostic describes one problem found in a document.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Category Category `json:"category" yaml:"category"`
	Message  string   `json:"message"  yaml:"message"`

	// Line and Column are 1-based.
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`

	// Recovered is true when the stage continued past the problem.
	Recovered bool `json:"recovered" yaml:"recovered"`

	// Rule is the ID of the validation rule that produced the diagnostic.
	// Lexer and parser diagnostics leave it empty.
	Rule string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// Error implements the error interface so a diagnostic can be wrapped.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s [%s]", d.Line, d.Column, d.Severity, d.Message, d.Category)
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

// WithRecovered returns a copy of d with Recovered set.
func (d Diagnostic) WithRecovered(recovered bool) Diagnostic {
	d.Recovered = recovered
	return d
}

// New builds a diagnostic with the given category and severity.
func New(sev Severity, cat Category, line, col int, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Category: cat,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	}
}

// Errorf builds an error-severity diagnostic.
func Errorf(cat Category, line, col int, format string, args ...any) Diagnostic {
	return New(SeverityError, cat, line, col, format, args...)
}

// Warnf builds a warning-severity diagnostic.
func Warnf(cat Category, line, col int, format string, args ...any) Diagnostic {
	return New(SeverityWarning, cat, line, col, format, args...)
}

// List is an ordered sequence of diagnostics.
type List []Diagnostic

// Add appends d.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Errors returns the number of error-severity diagnostics.
func (l List) Errors() int {
	count := 0
	for _, d := range l {
		if d.IsError() {
			count++
		}
	}
	return count
}

// Warnings returns the number of warning-severity diagnostics.
func (l List) Warnings() int {
	return len(l) - l.Errors()
}

// HasErrors reports whether any diagnostic is an error.
func (l List) HasErrors() bool {
	return l.Errors() > 0
}

// FirstError returns the first error-severity diagnostic.
func (l List) FirstError() (Diagnostic, bool) {
	for _, d := range l {
		if d.IsError() {
			return d, true
		}
	}
	return Diagnostic{}, false
}

// ByClass returns the diagnostics whose category belongs to class.
func (l List) ByClass(class Class) List {
	var out List
	for _, d := range l {
		if d.Category.Class() == class {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns a copy ordered by position. Entries at the same position keep
// their relative order.
func (l List) Sorted() List {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		if c := cmp.Compare(a.Line, b.Line); c != 0 {
			return c
		}
		return cmp.Compare(a.Column, b.Column)
	})
	return out
}
