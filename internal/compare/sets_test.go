package compare

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSet_ToggleTwiceIsNoop(t *testing.T) {
	sets := []StringSet{nil, {}, NewStringSet("fr"), NewStringSet("en", "fr", "de")}
	for _, s := range sets {
		for _, col := range []string{"fr", "xx", ""} {
			got := s.Toggle(col).Toggle(col)
			assert.Equal(t, s.Len(), got.Len())
			for _, m := range s.Sorted() {
				assert.True(t, got.Has(m))
			}
			assert.Equal(t, s.Has(col), got.Has(col))
		}
	}
}

func TestStringSet_ToggleDoesNotMutate(t *testing.T) {
	s := NewStringSet("a")
	added := s.Toggle("b")
	removed := s.Toggle("a")

	assert.Equal(t, []string{"a"}, s.Sorted())
	assert.Equal(t, []string{"a", "b"}, added.Sorted())
	assert.Empty(t, removed.Sorted())
}

func TestStringSet_JSON(t *testing.T) {
	data, err := json.Marshal(NewStringSet("fr", "de"))
	require.NoError(t, err)
	assert.JSONEq(t, `["de","fr"]`, string(data))

	var s StringSet
	require.NoError(t, json.Unmarshal([]byte(`["x","y","x"]`), &s))
	assert.Equal(t, []string{"x", "y"}, s.Sorted())

	require.NoError(t, json.Unmarshal([]byte(`null`), &s))
	assert.Equal(t, 0, s.Len())

	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &s))
}

func TestActiveLanguages(t *testing.T) {
	all := []string{"en", "fr", "de", "kk"}

	assert.Equal(t, all, ActiveLanguages(all, nil))
	assert.Equal(t, []string{"en", "kk"}, ActiveLanguages(all, NewStringSet("fr", "de", "gone")))
	assert.Empty(t, ActiveLanguages(all, NewStringSet(all...)))
	assert.Equal(t, []string{"en", "fr", "de", "kk"}, all)
}

func TestAnnotate(t *testing.T) {
	report := Report{
		MissingKeys: []string{"x", "y"},
		TranslationIssues: []Issue{
			{Key: "a", MissingLanguages: []string{"fr"}},
			{Key: "b", MissingLanguages: []string{"en"}},
		},
	}

	// "stale" refers to a key no longer reported and is simply not shown.
	got := Annotate(report, NewStringSet("y", "stale"), NewStringSet("a", "x"))

	assert.Equal(t, []KeyEntry{{Key: "x"}, {Key: "y", Acknowledged: true}}, got.MissingKeys)
	assert.True(t, got.TranslationIssues[0].Acknowledged)
	assert.False(t, got.TranslationIssues[1].Acknowledged)
	assert.Equal(t, 1, got.AckedMissing)
	assert.Equal(t, 1, got.AckedIssues)
}

func TestParseTrack(t *testing.T) {
	tr, err := ParseTrack("missing")
	require.NoError(t, err)
	assert.Equal(t, TrackMissing, tr)

	tr, err = ParseTrack("issues")
	require.NoError(t, err)
	assert.Equal(t, TrackIssues, tr)

	_, err = ParseTrack("other")
	assert.ErrorIs(t, err, ErrUnknownTrack)
}
