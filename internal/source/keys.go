package source

import (
	"bytes"
	"io"

	"github.com/tidwall/gjson"

	"github.com/JonMunkholm/keydrift/internal/compare"
)

// ParseKeys reads a JSON document and returns its top-level property names in
// document order. The document must be a JSON object. A name that occurs more
// than once keeps the position of its first occurrence.
//
// limit caps the number of bytes read; zero means no cap.
func ParseKeys(r io.Reader, limit int64) (compare.KeySet, error) {
	data, err := readText(r, limit)
	if err != nil {
		return nil, keyWrap(err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, keyWrap(ErrEmptyFile)
	}
	if !gjson.ValidBytes(data) {
		return nil, keyError("invalid JSON")
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		kind := doc.Type.String()
		if doc.IsArray() {
			kind = "array"
		}
		return nil, keyError("top-level value must be an object, got %s", kind)
	}

	keys := compare.KeySet{}
	seen := make(map[string]struct{})
	doc.ForEach(func(name, _ gjson.Result) bool {
		k := name.String()
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		return true
	})
	return keys, nil
}
