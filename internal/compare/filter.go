package compare

// ActiveLanguages returns all minus the columns in ignore, keeping order.
func ActiveLanguages(all []string, ignore IgnoreSet) []string {
	active := make([]string, 0, len(all))
	for _, col := range all {
		if ignore.Has(col) {
			continue
		}
		active = append(active, col)
	}
	return active
}
