package compare

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered set of strings. Methods never modify the receiver;
// mutating operations return a new set.
type StringSet map[string]struct{}

// IgnoreSet holds the language columns excluded from the missing-translation
// check. Names that are not columns of the current table are inert.
type IgnoreSet = StringSet

// AckSet holds the keys a user marked as reviewed on one report track.
type AckSet = StringSet

// NewStringSet builds a set from items.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Has reports whether item is in the set. A nil set is empty.
func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Len returns the number of members.
func (s StringSet) Len() int {
	return len(s)
}

// Toggle returns a copy of s with item added if it was absent, or removed if
// it was present. Toggling the same item twice yields the original set.
func (s StringSet) Toggle(item string) StringSet {
	out := make(StringSet, len(s)+1)
	for k := range s {
		out[k] = struct{}{}
	}
	if s.Has(item) {
		delete(out, item)
	} else {
		out[item] = struct{}{}
	}
	return out
}

// Clear returns an empty set.
func (s StringSet) Clear() StringSet {
	return StringSet{}
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array of strings. null decodes to an empty set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}
