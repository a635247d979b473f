package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/coursedesk/coursedesk-backend/internal/wizard"
)

// SessionReaper periodically drops wizard sessions that were abandoned
// mid-flow, so half-finished drafts do not accumulate for the life of the
// process.
type SessionReaper struct {
	store    *wizard.Store
	interval time.Duration
	log      zerolog.Logger
}

// NewSessionReaper creates a new SessionReaper.
func NewSessionReaper(store *wizard.Store, interval time.Duration, log zerolog.Logger) *SessionReaper {
	return &SessionReaper{
		store:    store,
		interval: interval,
		log:      log.With().Str("component", "session_reaper").Logger(),
	}
}

// Start begins the reaper loop. Call in a goroutine.
func (w *SessionReaper) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			if reaped := w.store.ReapExpired(); reaped > 0 {
				w.log.Info().Int("reaped", reaped).Msg("Expired wizard sessions removed")
			}
		}
	}
}
