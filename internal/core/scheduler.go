package core

// scheduler.go reaps idle comparison sessions.
//
// Sessions live in memory only; the sweeper drops those unused for longer
// than the idle timeout so an unattended server does not grow without bound.
// Preferences are unaffected because they live in the preference store.

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/keydrift/internal/metrics"
)

// StartSessionSweeper removes idle sessions every interval until ctx is
// cancelled. It blocks; run it in its own goroutine.
func (s *Service) StartSessionSweeper(ctx context.Context, interval time.Duration) {
	slog.Info("session sweeper started",
		"interval", interval,
		"idle_timeout", s.opts.IdleTimeout,
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("session sweeper stopped")
			return
		case <-ticker.C:
			s.SweepSessions(ctx)
		}
	}
}

// SweepSessions removes every session idle for longer than the idle timeout
// and returns how many were removed.
func (s *Service) SweepSessions(ctx context.Context) int {
	cutoff := s.now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			removed++
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(remaining))
	if removed > 0 {
		logger(ctx).Info("idle sessions removed", "removed", removed, "remaining", remaining)
	}
	return removed
}
