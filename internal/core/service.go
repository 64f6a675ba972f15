package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/keydrift/internal/compare"
	"github.com/JonMunkholm/keydrift/internal/metrics"
	"github.com/JonMunkholm/keydrift/internal/prefs"
	"github.com/JonMunkholm/keydrift/internal/source"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoReport is returned when a report is requested before any
	// comparison ran in the session.
	ErrNoReport = errors.New("no report available")

	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no file provided")
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	KeyColumn            string
	Structural           compare.StructuralColumns
	MaxFileSize          int64
	MaxConcurrentUploads int
	MaxUploadWait        time.Duration
	IdleTimeout          time.Duration
	MaxSessions          int
}

const (
	defaultMaxFileSize = 20 << 20
	defaultIdleTimeout = 2 * time.Hour
	defaultMaxSessions = 1000
)

func (o Options) withDefaults() Options {
	if o.KeyColumn == "" {
		o.KeyColumn = compare.DefaultKeyColumn
	}
	if len(o.Structural) == 0 {
		o.Structural = compare.DefaultStructuralColumns
	}
	o.Structural = o.Structural.WithKey(o.KeyColumn)
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = defaultMaxFileSize
	}
	if o.IdleTimeout <= 0 {
		o.IdleTimeout = defaultIdleTimeout
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = defaultMaxSessions
	}
	return o
}

// Service provides the comparison operations for all sessions.
type Service struct {
	opts    Options
	prefs   *prefs.Repository
	limiter *UploadLimiter
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session

	// prefsMu serialises read-modify-write cycles on preferences, which may
	// be shared by several sessions of the same profile.
	prefsMu sync.Mutex
}

// session is the in-memory state of one comparison workspace. Inputs are
// replaced, never mutated, so a Report can share them safely.
type session struct {
	id      string
	profile string

	mu        sync.Mutex
	keys      compare.KeySet
	keysFile  string
	table     compare.Table
	tableFile string
	report    *compare.Report
	lastUsed  time.Time
}

// NewService creates a Service that persists preferences through repo.
func NewService(repo *prefs.Repository, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		opts:     opts,
		prefs:    repo,
		limiter:  NewUploadLimiter(opts.MaxConcurrentUploads, opts.MaxUploadWait),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Limiter exposes the upload limiter for graceful shutdown.
func (s *Service) Limiter() *UploadLimiter {
	return s.limiter
}

// NewSession creates an empty session and returns its ID. Preferences are
// stored under profile; an empty profile uses the session ID, so nothing is
// shared with other sessions. When the session cap is reached the least
// recently used session is dropped.
func (s *Service) NewSession(ctx context.Context, profile string) string {
	id := uuid.NewString()
	if profile == "" {
		profile = id
	}

	s.mu.Lock()
	if len(s.sessions) >= s.opts.MaxSessions {
		s.evictOldestLocked(ctx)
	}
	s.sessions[id] = &session{id: id, profile: profile, lastUsed: s.now()}
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	logger(ctx).Debug("session created", "session", id, "profile", profile)
	return id
}

// HasSession reports whether id names a live session.
func (s *Service) HasSession(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// Profile returns the preference namespace of a session.
func (s *Service) Profile(id string) (string, error) {
	sess, err := s.get(id)
	if err != nil {
		return "", err
	}
	return sess.profile, nil
}

func (s *Service) evictOldestLocked(ctx context.Context) {
	var oldest *session
	for _, sess := range s.sessions {
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldest = sess
		}
	}
	if oldest != nil {
		delete(s.sessions, oldest.id)
		logger(ctx).Warn("session cap reached, dropped least recently used session",
			"evicted", oldest.id, "max_sessions", s.opts.MaxSessions)
	}
}

// get looks a session up and marks it used.
func (s *Service) get(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	sess.mu.Lock()
	sess.lastUsed = s.now()
	sess.mu.Unlock()
	return sess, nil
}

// LoadKeys parses an application key file and replaces the session's key
// set. On error the previous key set is kept.
func (s *Service) LoadKeys(ctx context.Context, id, fileName string, r io.Reader) (int, error) {
	sess, err := s.get(id)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, ErrNoFile
	}

	var keys compare.KeySet
	err = s.parse(ctx, "keys", func() error {
		var perr error
		keys, perr = source.ParseKeys(r, s.opts.MaxFileSize)
		return perr
	})
	if err != nil {
		logger(ctx).Warn("key file rejected", "file", fileName, "error", err)
		return 0, err
	}

	sess.mu.Lock()
	sess.keys = keys
	sess.keysFile = fileName
	sess.mu.Unlock()

	logger(ctx).Info("key file loaded", "file", fileName, "keys", len(keys))
	return len(keys), nil
}

// LoadTable parses a translation table (CSV or XLSX, chosen by file name)
// and replaces the session's table. On error the previous table is kept.
func (s *Service) LoadTable(ctx context.Context, id, fileName, sheet string, r io.Reader) (int, error) {
	sess, err := s.get(id)
	if err != nil {
		return 0, err
	}
	if r == nil {
		return 0, ErrNoFile
	}

	var table compare.Table
	err = s.parse(ctx, "table", func() error {
		var perr error
		table, perr = source.ParseTable(fileName, r, source.TableOptions{
			Sheet: sheet,
			Limit: s.opts.MaxFileSize,
		})
		return perr
	})
	if err != nil {
		logger(ctx).Warn("translation table rejected", "file", fileName, "error", err)
		return 0, err
	}

	sess.mu.Lock()
	sess.table = table
	sess.tableFile = fileName
	sess.mu.Unlock()

	logger(ctx).Info("translation table loaded",
		"file", fileName, "rows", table.Len(), "columns", len(table.Columns))
	return table.Len(), nil
}

// parse runs fn under an upload slot and records the outcome.
func (s *Service) parse(ctx context.Context, kind string, fn func() error) error {
	if err := s.limiter.Acquire(ctx); err != nil {
		metrics.Uploads.WithLabelValues(kind, "rejected").Inc()
		return err
	}
	defer s.limiter.Release()

	if err := fn(); err != nil {
		metrics.Uploads.WithLabelValues(kind, "error").Inc()
		return err
	}
	metrics.Uploads.WithLabelValues(kind, "ok").Inc()
	return nil
}

// Language is one language column of the loaded table.
type Language struct {
	Name    string `json:"name"`
	Ignored bool   `json:"ignored"`
}

// LanguageView lists the language columns in table order with their ignore
// flags. Ignored may name columns absent from the current table; they are
// kept because the ignore set outlives any one table.
type LanguageView struct {
	Languages []Language `json:"languages"`
	Active    []string   `json:"active"`
	Ignored   []string   `json:"ignored"`
}

// Languages classifies the session's table against the current ignore set.
func (s *Service) Languages(ctx context.Context, id string) (LanguageView, error) {
	sess, err := s.get(id)
	if err != nil {
		return LanguageView{}, err
	}

	sess.mu.Lock()
	table := sess.table
	sess.mu.Unlock()

	p := s.prefs.Load(ctx, sess.profile)
	return s.languageView(table, p.Ignore), nil
}

func (s *Service) languageView(table compare.Table, ignore compare.IgnoreSet) LanguageView {
	all := compare.Classify(table, s.opts.Structural)
	view := LanguageView{
		Languages: make([]Language, 0, len(all)),
		Active:    compare.ActiveLanguages(all, ignore),
		Ignored:   ignore.Sorted(),
	}
	for _, lang := range all {
		view.Languages = append(view.Languages, Language{Name: lang, Ignored: ignore.Has(lang)})
	}
	return view
}

// ToggleIgnore adds column to the ignore set, or removes it if present, and
// persists the result.
func (s *Service) ToggleIgnore(ctx context.Context, id, column string) (LanguageView, error) {
	sess, err := s.get(id)
	if err != nil {
		return LanguageView{}, err
	}

	s.prefsMu.Lock()
	ignore := s.prefs.Load(ctx, sess.profile).Ignore.Toggle(column)
	err = s.prefs.SaveIgnore(ctx, sess.profile, ignore)
	s.prefsMu.Unlock()
	if err != nil {
		return LanguageView{}, fmt.Errorf("save ignore set: %w", err)
	}

	logger(ctx).Debug("ignore set toggled", "column", column, "ignored", ignore.Has(column))

	sess.mu.Lock()
	table := sess.table
	sess.mu.Unlock()
	return s.languageView(table, ignore), nil
}

// ClearIgnore empties the ignore set.
func (s *Service) ClearIgnore(ctx context.Context, id string) (LanguageView, error) {
	sess, err := s.get(id)
	if err != nil {
		return LanguageView{}, err
	}

	s.prefsMu.Lock()
	err = s.prefs.SaveIgnore(ctx, sess.profile, compare.IgnoreSet{})
	s.prefsMu.Unlock()
	if err != nil {
		return LanguageView{}, fmt.Errorf("clear ignore set: %w", err)
	}

	sess.mu.Lock()
	table := sess.table
	sess.mu.Unlock()
	return s.languageView(table, compare.IgnoreSet{}), nil
}

// Compare classifies the table, drops ignored languages, compares keys with
// rows and stores the report. The session lock is held throughout, so a
// concurrent upload to the same session waits for the run to finish.
func (s *Service) Compare(ctx context.Context, id string) (compare.AnnotatedReport, error) {
	sess, err := s.get(id)
	if err != nil {
		return compare.AnnotatedReport{}, err
	}

	p := s.prefs.Load(ctx, sess.profile)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	start := time.Now()
	all := compare.Classify(sess.table, s.opts.Structural)
	active := compare.ActiveLanguages(all, p.Ignore)
	report, err := compare.Compare(sess.keys, sess.table, s.opts.KeyColumn, active)
	metrics.CompareDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.Comparisons.WithLabelValues("inputs_missing").Inc()
		return compare.AnnotatedReport{}, err
	}

	outcome := "ok"
	if !report.Empty() {
		outcome = "drift"
	}
	metrics.Comparisons.WithLabelValues(outcome).Inc()

	sess.report = &report
	logger(ctx).Info("comparison finished",
		"missing_keys", len(report.MissingKeys),
		"translation_issues", len(report.TranslationIssues),
		"active_languages", len(active),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return compare.Annotate(report, p.AckMissing, p.AckIssues), nil
}

// Report returns the stored report annotated with the current
// acknowledgements, without recomputing it.
func (s *Service) Report(ctx context.Context, id string) (compare.AnnotatedReport, error) {
	sess, err := s.get(id)
	if err != nil {
		return compare.AnnotatedReport{}, err
	}

	sess.mu.Lock()
	report := sess.report
	sess.mu.Unlock()
	if report == nil {
		return compare.AnnotatedReport{}, ErrNoReport
	}

	p := s.prefs.Load(ctx, sess.profile)
	return compare.Annotate(*report, p.AckMissing, p.AckIssues), nil
}

// ClearReport discards the stored report. Acknowledgements are kept.
func (s *Service) ClearReport(ctx context.Context, id string) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	sess.report = nil
	sess.mu.Unlock()
	return nil
}

// ToggleAck flips the acknowledgement of key on track and persists it. Keys
// outside the current report are accepted; they simply never render.
func (s *Service) ToggleAck(ctx context.Context, id string, track compare.Track, key string) (bool, error) {
	if _, err := compare.ParseTrack(string(track)); err != nil {
		return false, err
	}
	sess, err := s.get(id)
	if err != nil {
		return false, err
	}

	s.prefsMu.Lock()
	set := s.prefs.Load(ctx, sess.profile).Acks(track).Toggle(key)
	err = s.prefs.SaveAcks(ctx, sess.profile, track, set)
	s.prefsMu.Unlock()
	if err != nil {
		return false, fmt.Errorf("save acknowledgements: %w", err)
	}

	return set.Has(key), nil
}

// ClearAcks empties both acknowledgement tracks.
func (s *Service) ClearAcks(ctx context.Context, id string) error {
	sess, err := s.get(id)
	if err != nil {
		return err
	}

	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	for _, track := range []compare.Track{compare.TrackMissing, compare.TrackIssues} {
		if err := s.prefs.SaveAcks(ctx, sess.profile, track, compare.AckSet{}); err != nil {
			return fmt.Errorf("clear acknowledgements: %w", err)
		}
	}
	return nil
}

// Status summarises what a session has loaded.
type Status struct {
	SessionID   string              `json:"sessionId"`
	KeysFile    string              `json:"keysFile,omitempty"`
	KeysLoaded  bool                `json:"keysLoaded"`
	KeyCount    int                 `json:"keyCount"`
	TableFile   string              `json:"tableFile,omitempty"`
	TableLoaded bool                `json:"tableLoaded"`
	RowCount    int                 `json:"rowCount"`
	ColumnCount int                 `json:"columnCount"`
	HasReport   bool                `json:"hasReport"`
	Uploads     UploadLimiterStatus `json:"uploads"`
}

// Ready reports whether both inputs are loaded.
func (st Status) Ready() bool {
	return st.KeysLoaded && st.TableLoaded
}

// Status returns the session summary.
func (s *Service) Status(ctx context.Context, id string) (Status, error) {
	sess, err := s.get(id)
	if err != nil {
		return Status{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return Status{
		SessionID:   sess.id,
		KeysFile:    sess.keysFile,
		KeysLoaded:  len(sess.keys) > 0,
		KeyCount:    len(sess.keys),
		TableFile:   sess.tableFile,
		TableLoaded: sess.table.Len() > 0,
		RowCount:    sess.table.Len(),
		ColumnCount: len(sess.table.Columns),
		HasReport:   sess.report != nil,
		Uploads:     s.limiter.Status(),
	}, nil
}
