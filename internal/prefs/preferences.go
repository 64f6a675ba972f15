package prefs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/logging"
	"github.com/JonMunkholm/keydrift/internal/metrics"
)

// Storage keys, one per persisted value.
const (
	KeyIgnoreColumns   = "ignoreColumns"
	KeyAckMissing      = "checkedKeys"
	KeyAckTranslations = "checkedTranslationKeys"
)

// Preferences is the persisted user state for one profile.
type Preferences struct {
	Ignore     compare.IgnoreSet `json:"ignoreColumns"`
	AckMissing compare.AckSet    `json:"checkedKeys"`
	AckIssues  compare.AckSet    `json:"checkedTranslationKeys"`
}

// Empty returns preferences with every set initialised and empty.
func Empty() Preferences {
	return Preferences{
		Ignore:     compare.IgnoreSet{},
		AckMissing: compare.AckSet{},
		AckIssues:  compare.AckSet{},
	}
}

// Acks returns the acknowledgement set for track.
func (p Preferences) Acks(track compare.Track) compare.AckSet {
	if track == compare.TrackIssues {
		return p.AckIssues
	}
	return p.AckMissing
}

// WithAcks returns a copy of p with the set for track replaced.
func (p Preferences) WithAcks(track compare.Track, set compare.AckSet) Preferences {
	if track == compare.TrackIssues {
		p.AckIssues = set
	} else {
		p.AckMissing = set
	}
	return p
}

// Repository loads and saves Preferences through a Store.
type Repository struct {
	store Store
}

// NewRepository returns a Repository backed by store.
func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Load reads all preference values for namespace. It never fails: each value
// that is missing or cannot be read or decoded comes back empty.
func (r *Repository) Load(ctx context.Context, namespace string) Preferences {
	return Preferences{
		Ignore:     r.loadSet(ctx, namespace, KeyIgnoreColumns),
		AckMissing: r.loadSet(ctx, namespace, KeyAckMissing),
		AckIssues:  r.loadSet(ctx, namespace, KeyAckTranslations),
	}
}

// Save writes every preference value for namespace.
func (r *Repository) Save(ctx context.Context, namespace string, p Preferences) error {
	if err := r.SaveIgnore(ctx, namespace, p.Ignore); err != nil {
		return err
	}
	if err := r.SaveAcks(ctx, namespace, compare.TrackMissing, p.AckMissing); err != nil {
		return err
	}
	return r.SaveAcks(ctx, namespace, compare.TrackIssues, p.AckIssues)
}

// SaveIgnore writes the ignore set alone.
func (r *Repository) SaveIgnore(ctx context.Context, namespace string, set compare.IgnoreSet) error {
	return r.saveSet(ctx, namespace, KeyIgnoreColumns, set)
}

// SaveAcks writes the acknowledgement set of one track.
func (r *Repository) SaveAcks(ctx context.Context, namespace string, track compare.Track, set compare.AckSet) error {
	key := KeyAckMissing
	if track == compare.TrackIssues {
		key = KeyAckTranslations
	}
	return r.saveSet(ctx, namespace, key, set)
}

func (r *Repository) loadSet(ctx context.Context, namespace, key string) compare.StringSet {
	logger := logging.WithFields(ctx, "namespace", namespace, "key", key)

	raw, ok, err := r.store.Get(ctx, namespace, key)
	if err != nil {
		logger.Warn("preference read failed, using empty default", "error", err)
		metrics.PrefsFallbacks.WithLabelValues("read_error").Inc()
		return compare.StringSet{}
	}
	if !ok {
		return compare.StringSet{}
	}

	var set compare.StringSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		logger.Warn("preference value corrupt, using empty default", "error", err)
		metrics.PrefsFallbacks.WithLabelValues("corrupt").Inc()
		return compare.StringSet{}
	}
	if set == nil {
		set = compare.StringSet{}
	}
	return set
}

// saveSet stores set as a JSON array; an empty set removes the value.
func (r *Repository) saveSet(ctx context.Context, namespace, key string, set compare.StringSet) error {
	var err error
	if set.Len() == 0 {
		err = r.store.Delete(ctx, namespace, key)
	} else {
		var data []byte
		data, err = json.Marshal(set)
		if err == nil {
			err = r.store.Set(ctx, namespace, key, string(data))
		}
	}
	if err != nil {
		metrics.PrefsWriteErrors.Inc()
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
