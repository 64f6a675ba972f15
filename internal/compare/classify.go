package compare

import "sort"

// Classify returns the language columns of table: the columns of its first
// row that are not structural, in header order.
//
// Only the first row is inspected. A column that appears in later rows but not
// in the first is never treated as a language.
func Classify(table Table, structural StructuralColumns) []string {
	if table.Len() == 0 {
		return []string{}
	}
	first := table.Rows[0]

	columns := table.Columns
	if len(columns) == 0 {
		// Hand-built tables may come without a header; fall back to a stable order.
		columns = make([]string, 0, len(first))
		for col := range first {
			columns = append(columns, col)
		}
		sort.Strings(columns)
	}

	langs := make([]string, 0, len(columns))
	for _, col := range columns {
		if _, ok := first[col]; !ok {
			continue
		}
		if structural.Contains(col) {
			continue
		}
		langs = append(langs, col)
	}
	return langs
}
