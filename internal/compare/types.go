package compare

import (
	"errors"
	"slices"
	"strings"
	"unicode"
)

// DefaultKeyColumn is the table column whose value identifies a row.
const DefaultKeyColumn = "SPA.key"

// DefaultStructuralColumns lists the columns of the back-office export that
// carry metadata rather than a translation. The key column is included.
var DefaultStructuralColumns = StructuralColumns{
	DefaultKeyColumn,
	"Default.key",
	"Android.key",
	"iOS.key",
	"Brand",
	"Tag",
	"ID",
}

var (
	// ErrInputsMissing is returned by Compare when either the key set or the
	// table is empty. An empty report would be misleading in that case.
	ErrInputsMissing = errors.New("inputs missing: load both the key file and the translation table")

	// ErrMalformedKeySource wraps any failure to parse the key document.
	ErrMalformedKeySource = errors.New("malformed key source")

	// ErrMalformedTableSource wraps any failure to parse the translation table.
	ErrMalformedTableSource = errors.New("malformed table source")
)

// KeySet is the ordered list of keys the application expects translations for.
type KeySet []string

// Row is one row of the translation table, keyed by column name.
type Row map[string]string

// Get returns the value of col, or "" when the row has no such column.
func (r Row) Get(col string) string {
	return r[col]
}

// Table is an ordered sequence of rows plus the header they were read with.
// Columns fixes the column order; Rows may be missing some of them.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// StructuralColumns is a set of column names that are never languages.
type StructuralColumns []string

// Contains reports whether col is structural.
func (s StructuralColumns) Contains(col string) bool {
	return slices.Contains(s, col)
}

// WithKey returns s with keyColumn appended if it is not already present.
func (s StructuralColumns) WithKey(keyColumn string) StructuralColumns {
	if keyColumn == "" || s.Contains(keyColumn) {
		return s
	}
	out := make(StructuralColumns, 0, len(s)+1)
	out = append(out, s...)
	return append(out, keyColumn)
}

// Issue lists the active languages a matched key has no value for.
type Issue struct {
	Key              string   `json:"key"`
	MissingLanguages []string `json:"missingLanguages"`
}

// Stats summarises a comparison for display. It never affects the report.
type Stats struct {
	Keys            int `json:"keys"`
	Rows            int `json:"rows"`
	UnkeyedRows     int `json:"unkeyedRows"`
	DuplicateRows   int `json:"duplicateRows"`
	MatchedKeys     int `json:"matchedKeys"`
	CompleteKeys    int `json:"completeKeys"`
	ActiveLanguages int `json:"activeLanguages"`
}

// Report is the outcome of one comparison run.
type Report struct {
	MissingKeys       []string `json:"missingKeys"`
	TranslationIssues []Issue  `json:"translationIssues"`
	Stats             Stats    `json:"stats"`
}

// Empty reports whether the comparison found no drift.
func (r Report) Empty() bool {
	return len(r.MissingKeys) == 0 && len(r.TranslationIssues) == 0
}

// trim strips leading and trailing white space, including the byte order mark
// that spreadsheet tools like to leave in the first cell.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
