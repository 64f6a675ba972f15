// Package compare reconciles an application's translation keys against a
// back-office translation table.
//
// The package is pure: nothing here performs I/O or keeps hidden state, so
// every function can be called from web handlers, the CLI, or tests without
// setup. The pipeline is:
//
//	langs := Classify(table, structural)     // which columns are languages
//	active := ActiveLanguages(langs, ignore)  // minus the user's ignore set
//	report, err := Compare(keys, table, keyColumn, active)
//	view := Annotate(report, ackMissing, ackIssues)
//
// # Row access
//
// A [Row] is a plain map from column name to cell value. Looking up a column
// that is not in the map yields the empty string, which the engine treats the
// same as an empty cell. It is never an error.
//
// # Duplicates
//
// Rows are not required to be unique by identifier. When several rows share a
// trimmed identifier, the first one in table order is used and the rest are
// ignored. [Stats.DuplicateRows] counts how many were skipped.
package compare
