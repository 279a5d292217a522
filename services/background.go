package services

import (
	"context"
	"time"

	"github.com/HSouheill/storefront_backend/logging"
)

// LogRetention deletes audit entries older than settings.logRetentionDays.
// Zero days disables the sweep.
type LogRetention struct {
	logs     LogStore
	settings SettingsStore
	every    time.Duration
	now      func() time.Time
}

func NewLogRetention(logs LogStore, settings SettingsStore, every time.Duration) *LogRetention {
	if every <= 0 {
		every = time.Hour
	}
	return &LogRetention{logs: logs, settings: settings, every: every, now: time.Now}
}

func (r *LogRetention) String() string { return "log-retention" }

// Serve implements suture.Service.
func (r *LogRetention) Serve(ctx context.Context) error {
	ticker := time.NewTicker(r.every)
	defer ticker.Stop()
	for {
		r.Sweep(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass and reports how many entries were removed.
func (r *LogRetention) Sweep(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	st, err := r.settings.Get(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("log retention: failed to load settings")
		return 0
	}
	if st.LogRetentionDays <= 0 {
		return 0
	}
	cutoff := r.now().UTC().AddDate(0, 0, -st.LogRetentionDays)
	n, err := r.logs.DeleteBefore(ctx, cutoff)
	if err != nil {
		logging.Warn().Err(err).Msg("log retention: delete failed")
		return 0
	}
	if n > 0 {
		logging.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("log retention sweep")
	}
	return n
}

// PresenceMarker flips isOnline off for users idle longer than idleAfter.
type PresenceMarker struct {
	users     UserStore
	idleAfter time.Duration
	every     time.Duration
	now       func() time.Time
}

func NewPresenceMarker(users UserStore, idleAfter, every time.Duration) *PresenceMarker {
	if idleAfter <= 0 {
		idleAfter = 30 * time.Minute
	}
	if every <= 0 {
		every = 5 * time.Minute
	}
	return &PresenceMarker{users: users, idleAfter: idleAfter, every: every, now: time.Now}
}

func (p *PresenceMarker) String() string { return "presence-marker" }

func (p *PresenceMarker) Serve(ctx context.Context) error {
	ticker := time.NewTicker(p.every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Mark(ctx)
		}
	}
}

func (p *PresenceMarker) Mark(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	n, err := p.users.MarkOffline(ctx, p.now().UTC().Add(-p.idleAfter))
	if err != nil {
		logging.Warn().Err(err).Msg("presence: failed to mark idle users offline")
		return 0
	}
	if n > 0 {
		logging.Debug().Int64("users", n).Msg("presence: marked users offline")
	}
	return n
}
