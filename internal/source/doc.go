// Package source turns uploaded files into the in-memory inputs of the
// comparison engine: a key list from a JSON document and a row table from a
// CSV or XLSX export.
//
// Every parse failure wraps compare.ErrMalformedKeySource or
// compare.ErrMalformedTableSource so callers can tell the user which file was
// rejected. A failed parse never returns partial data.
package source
