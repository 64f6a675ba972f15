package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

// Format identifies the file format of a table upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat picks the table format from a file name's extension.
// Anything that is not a spreadsheet is read as delimited text.
func DetectFormat(fileName string) Format {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// TableOptions tunes table parsing.
type TableOptions struct {
	// Sheet selects the worksheet of an XLSX file; empty means the first one.
	Sheet string

	// Limit caps the bytes read from the upload; zero means no cap.
	Limit int64
}

// ParseTable parses r as the format implied by fileName.
func ParseTable(fileName string, r io.Reader, opts TableOptions) (compare.Table, error) {
	if DetectFormat(fileName) == FormatXLSX {
		return ParseXLSX(r, opts)
	}
	return ParseCSV(r, opts.Limit)
}

// delimiters are the separators ParseCSV recognises, in tie-break order.
var delimiters = []rune{',', ';', '\t', '|'}

// ParseCSV reads a delimited table with a header row. The delimiter is sniffed
// from the header line. Blank lines are skipped, short rows simply lack their
// trailing columns and cells beyond the header are dropped.
func ParseCSV(r io.Reader, limit int64) (compare.Table, error) {
	data, err := readText(r, limit)
	if err != nil {
		return compare.Table{}, tableWrap(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return compare.Table{}, tableWrap(ErrEmptyFile)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return compare.Table{}, tableError("line %d: %v", perr.Line, perr.Err)
		}
		return compare.Table{}, tableWrap(err)
	}
	return buildTable(records)
}

// sniffDelimiter counts candidate separators on the first line, outside of
// quotes, and returns the most frequent. Comma wins when none occur.
func sniffDelimiter(data []byte) rune {
	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, c := range string(data) {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if inQuotes {
			continue
		}
		if c == '\n' || c == '\r' {
			break
		}
		counts[c]++
	}

	best, bestCount := ',', 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	return best
}

// buildTable turns header + records into a Table. Header names are trimmed;
// a repeated or empty header name is skipped so the first occurrence wins.
func buildTable(records [][]string) (compare.Table, error) {
	if len(records) == 0 {
		return compare.Table{}, tableWrap(ErrEmptyFile)
	}

	header := records[0]
	columns := make([]string, 0, len(header))
	positions := make([]int, 0, len(header))
	seen := make(map[string]struct{}, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		columns = append(columns, name)
		positions = append(positions, i)
	}
	if len(columns) == 0 {
		return compare.Table{}, tableError("header row has no column names")
	}

	table := compare.Table{
		Columns: columns,
		Rows:    make([]compare.Row, 0, len(records)-1),
	}
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(compare.Row, len(columns))
		for j, col := range columns {
			if pos := positions[j]; pos < len(rec) {
				row[col] = rec[pos]
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// blankRecord reports whether a record has no cells at all, or a single empty
// one (what encoding/csv yields for a line holding only white space).
func blankRecord(rec []string) bool {
	return len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "")
}
