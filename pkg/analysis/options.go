package analysis

// SortField specifies how to sort breakdown rows.
type SortField string

const (
	// SortByCount sorts by issue count, highest first.
	SortByCount SortField = "count"
	// SortByAlpha sorts by file path or source key.
	SortByAlpha SortField = "alpha"
	// SortBySeverity sorts errors first, then warnings.
	SortBySeverity SortField = "severity"
)

// ParseSortField parses a sort field name. The empty string selects
// SortByCount.
func ParseSortField(name string) (SortField, bool) {
	field := SortField(name)
	if name == "" {
		return SortByCount, true
	}
	return field, field.IsValid()
}

// IsValid returns true if the sort field is valid.
func (s SortField) IsValid() bool {
	switch s {
	case SortByCount, SortByAlpha, SortBySeverity:
		return true
	default:
		return false
	}
}

// Options configures Analyze.
type Options struct {
	// SortBy orders ByFile and BySource.
	SortBy SortField

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options sorted by count.
func DefaultOptions() Options {
	return Options{SortBy: SortByCount}
}
