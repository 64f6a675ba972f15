package compare

// Compare reconciles keys against table and reports drift on the active
// language columns.
//
// A row's identifier is its keyColumn value with surrounding white space
// trimmed; rows with an empty identifier never match. Keys match identifiers
// by exact string equality. When identifiers repeat, the first row wins.
//
// ErrInputsMissing is returned when keys or table is empty.
func Compare(keys KeySet, table Table, keyColumn string, active []string) (Report, error) {
	if len(keys) == 0 || table.Len() == 0 {
		return Report{}, ErrInputsMissing
	}

	index, stats := indexRows(table, keyColumn)
	stats.Keys = len(keys)
	stats.ActiveLanguages = len(active)

	report := Report{
		MissingKeys:       []string{},
		TranslationIssues: []Issue{},
	}
	for _, key := range keys {
		row, ok := index[key]
		if !ok {
			report.MissingKeys = append(report.MissingKeys, key)
			continue
		}
		stats.MatchedKeys++

		missing := missingLanguages(row, active)
		if len(missing) == 0 {
			stats.CompleteKeys++
			continue
		}
		report.TranslationIssues = append(report.TranslationIssues, Issue{
			Key:              key,
			MissingLanguages: missing,
		})
	}

	report.Stats = stats
	return report, nil
}

// indexRows maps each trimmed identifier to the first row carrying it.
func indexRows(table Table, keyColumn string) (map[string]Row, Stats) {
	stats := Stats{Rows: table.Len()}
	index := make(map[string]Row, table.Len())
	for _, row := range table.Rows {
		id := trim(row.Get(keyColumn))
		if id == "" {
			stats.UnkeyedRows++
			continue
		}
		if _, seen := index[id]; seen {
			stats.DuplicateRows++
			continue
		}
		index[id] = row
	}
	return index, stats
}

// missingLanguages returns the columns of active that row has no value for.
// A value consisting only of white space counts as missing.
func missingLanguages(row Row, active []string) []string {
	var missing []string
	for _, col := range active {
		if trim(row.Get(col)) == "" {
			missing = append(missing, col)
		}
	}
	return missing
}
