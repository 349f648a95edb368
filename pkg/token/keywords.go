package token

import "strings"

// DirectivePrefix introduces a custom directive keyword.
const DirectivePrefix = "x-"

// Escapable lists the characters a backslash escapes.
const Escapable = `\@()[]{}#><-:,=|`

// Keyword binds a canonical keyword and its aliases to a token kind.
type Keyword struct {
	Name    string
	Aliases []string
	Kind    Kind
}

// KeywordTable maps keyword spellings to token kinds. Build one with
// NewKeywordTable or DefaultKeywords and pass it to the lexer; a table is
// read-only after construction and safe for concurrent use.
type KeywordTable struct {
	byName    map[string]Kind
	canonical map[Kind]string
	entries   []Keyword
}

// NewKeywordTable constructs a table from keyword definitions. Later entries
// win when two entries claim the same spelling.
func NewKeywordTable(keywords ...Keyword) KeywordTable {
	table := KeywordTable{
		byName:    make(map[string]Kind, len(keywords)*2),
		canonical: make(map[Kind]string, len(keywords)),
		entries:   make([]Keyword, 0, len(keywords)),
	}
	for _, kw := range keywords {
		table.byName[strings.ToLower(kw.Name)] = kw.Kind
		if _, ok := table.canonical[kw.Kind]; !ok {
			table.canonical[kw.Kind] = kw.Name
		}
		for _, alias := range kw.Aliases {
			table.byName[strings.ToLower(alias)] = kw.Kind
		}
		table.entries = append(table.entries, kw)
	}
	return table
}

// DefaultKeywords returns the standard nomenic keyword table.
func DefaultKeywords() KeywordTable {
	return NewKeywordTable(
		Keyword{Name: "meta", Aliases: []string{"m"}, Kind: KindMeta},
		Keyword{Name: "header", Aliases: []string{"h", "section", "s"}, Kind: KindHeader},
		Keyword{Name: "text", Aliases: []string{"t"}, Kind: KindText},
		Keyword{Name: "list", Aliases: []string{"l"}, Kind: KindList},
		Keyword{Name: "code", Aliases: []string{"c"}, Kind: KindCode},
		Keyword{Name: "table", Aliases: []string{"tb", "tbl"}, Kind: KindTable},
		Keyword{Name: "def-list", Aliases: []string{"dl"}, Kind: KindDefList},
		Keyword{Name: "def-term", Aliases: []string{"dt"}, Kind: KindDefTerm},
		Keyword{Name: "def-desc", Aliases: []string{"dd"}, Kind: KindDefDesc},
		Keyword{Name: "blockquote", Aliases: []string{"bq"}, Kind: KindBlockquote},
		Keyword{Name: "figure", Aliases: []string{"fig"}, Kind: KindFigure},
		Keyword{Name: "src", Kind: KindSrc},
		Keyword{Name: "caption", Kind: KindCaption},
		Keyword{Name: "note", Aliases: []string{"n"}, Kind: KindNote},
		Keyword{Name: "warn", Aliases: []string{"w"}, Kind: KindWarn},
		Keyword{Name: "tip", Kind: KindTip},
	)
}

// Lookup returns the kind for a keyword spelling (without the colon).
// Names beginning with the directive prefix always resolve to KindDirective.
func (t KeywordTable) Lookup(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, DirectivePrefix) {
		return KindDirective, true
	}
	kind, ok := t.byName[lower]
	return kind, ok
}

// Canonical returns the long spelling for kind, or "" if kind is not a keyword
// in this table.
func (t KeywordTable) Canonical(kind Kind) string {
	if kind == KindDirective {
		return DirectivePrefix
	}
	return t.canonical[kind]
}

// Keywords returns the definitions the table was built from.
func (t KeywordTable) Keywords() []Keyword {
	out := make([]Keyword, len(t.entries))
	copy(out, t.entries)
	return out
}

// IsZero reports whether the table was never constructed.
func (t KeywordTable) IsZero() bool {
	return t.byName == nil
}
