package compare

import (
	"errors"
	"fmt"
)

// Track names one of the two acknowledgement lists.
type Track string

const (
	TrackMissing Track = "missing"
	TrackIssues  Track = "issues"
)

// ErrUnknownTrack is returned by ParseTrack for a name that is neither
// "missing" nor "issues".
var ErrUnknownTrack = errors.New("unknown acknowledgement track")

// ParseTrack validates a track name.
func ParseTrack(s string) (Track, error) {
	switch Track(s) {
	case TrackMissing, TrackIssues:
		return Track(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTrack, s)
	}
}

// KeyEntry is a missing key together with its review state.
type KeyEntry struct {
	Key          string `json:"key"`
	Acknowledged bool   `json:"acknowledged"`
}

// IssueEntry is a translation issue together with its review state.
type IssueEntry struct {
	Issue
	Acknowledged bool `json:"acknowledged"`
}

// AnnotatedReport is a Report joined with the user's acknowledgements.
type AnnotatedReport struct {
	MissingKeys       []KeyEntry   `json:"missingKeys"`
	TranslationIssues []IssueEntry `json:"translationIssues"`
	Stats             Stats        `json:"stats"`
	AckedMissing      int          `json:"ackedMissing"`
	AckedIssues       int          `json:"ackedIssues"`
}

// Annotate marks each report entry acknowledged when its key is in the set of
// the matching track. Acknowledgements for keys not in the report are ignored.
func Annotate(r Report, ackMissing, ackIssues AckSet) AnnotatedReport {
	out := AnnotatedReport{
		MissingKeys:       make([]KeyEntry, 0, len(r.MissingKeys)),
		TranslationIssues: make([]IssueEntry, 0, len(r.TranslationIssues)),
		Stats:             r.Stats,
	}
	for _, key := range r.MissingKeys {
		acked := ackMissing.Has(key)
		if acked {
			out.AckedMissing++
		}
		out.MissingKeys = append(out.MissingKeys, KeyEntry{Key: key, Acknowledged: acked})
	}
	for _, issue := range r.TranslationIssues {
		acked := ackIssues.Has(issue.Key)
		if acked {
			out.AckedIssues++
		}
		out.TranslationIssues = append(out.TranslationIssues, IssueEntry{Issue: issue, Acknowledged: acked})
	}
	return out
}
