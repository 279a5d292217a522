package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
)

// Actor identifies who triggered an audited action.
type Actor struct {
	UserID primitive.ObjectID
	Role   models.Role
	IP     string
}

// AuditLogger persists audit entries and mirrors them to the process log.
// Persistence failures are logged and swallowed.
type AuditLogger struct {
	store LogStore
	log   zerolog.Logger
}

func NewAuditLogger(store LogStore) *AuditLogger {
	return &AuditLogger{store: store, log: logging.With("audit")}
}

func (a *AuditLogger) Record(ctx context.Context, level models.LogLevel, category models.LogCategory, actor Actor, message string, metadata map[string]interface{}) {
	if a == nil {
		return
	}
	entry := &models.Log{
		Level:     level,
		Category:  category,
		Message:   message,
		IP:        actor.IP,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if !actor.UserID.IsZero() {
		uid := actor.UserID
		entry.UserID = &uid
	}

	ev := a.log.WithLevel(zerologLevel(level)).Str("category", string(category))
	if entry.UserID != nil {
		ev = ev.Str("userId", entry.UserID.Hex())
	}
	if len(metadata) > 0 {
		ev = ev.Fields(metadata)
	}
	ev.Msg(message)

	if a.store == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := a.store.Insert(writeCtx, entry); err != nil {
		a.log.Warn().Err(err).Str("category", string(category)).Msg("failed to persist audit entry")
	}
}

func (a *AuditLogger) Info(ctx context.Context, category models.LogCategory, actor Actor, message string, metadata map[string]interface{}) {
	a.Record(ctx, models.LogInfo, category, actor, message, metadata)
}

func (a *AuditLogger) Warn(ctx context.Context, category models.LogCategory, actor Actor, message string, metadata map[string]interface{}) {
	a.Record(ctx, models.LogWarn, category, actor, message, metadata)
}

func (a *AuditLogger) Error(ctx context.Context, category models.LogCategory, actor Actor, message string, metadata map[string]interface{}) {
	a.Record(ctx, models.LogError, category, actor, message, metadata)
}

func zerologLevel(l models.LogLevel) zerolog.Level {
	switch l {
	case models.LogDebug:
		return zerolog.DebugLevel
	case models.LogWarn:
		return zerolog.WarnLevel
	case models.LogError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogService backs the admin log viewer.
type LogService struct {
	store LogStore
}

func NewLogService(store LogStore) *LogService {
	return &LogService{store: store}
}

func (s *LogService) List(ctx context.Context, f models.LogFilter) (models.Page[models.Log], error) {
	if f.Level != "" && !f.Level.Valid() {
		return models.Page[models.Log]{}, invalid("invalid level %q", f.Level)
	}
	if f.Category != "" && !f.Category.Valid() {
		return models.Page[models.Log]{}, invalid("invalid category %q", f.Category)
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return models.Page[models.Log]{}, storeErr(err, "logs")
	}
	return models.NewPage(items, total, f.Pagination), nil
}

// Purge deletes entries older than before; a zero time deletes everything.
func (s *LogService) Purge(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.store.DeleteBefore(ctx, before)
	if err != nil {
		return 0, storeErr(err, "logs")
	}
	return n, nil
}
