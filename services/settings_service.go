package services

import (
	"context"
	"strings"

	"github.com/HSouheill/storefront_backend/models"
)

type SettingsService struct {
	store SettingsStore
	audit *AuditLogger
}

func NewSettingsService(store SettingsStore, audit *AuditLogger) *SettingsService {
	return &SettingsService{store: store, audit: audit}
}

func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	st, err := s.store.Get(ctx)
	if err != nil {
		return models.Settings{}, storeErr(err, "settings")
	}
	return st, nil
}

func (s *SettingsService) Public(ctx context.Context) (models.PublicSettings, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return models.PublicSettings{}, err
	}
	return models.PublicSettings{
		SiteName:        st.SiteName,
		SupportEmail:    st.SupportEmail,
		Currency:        st.Currency,
		MaintenanceMode: st.MaintenanceMode,
	}, nil
}

// Update merges the patch into the current settings and saves the result.
func (s *SettingsService) Update(ctx context.Context, patch models.Patch, actor Actor) (models.Settings, error) {
	var upd models.SettingsUpdate
	if err := patch.Decode(&upd); err != nil {
		return models.Settings{}, invalid("%s", err.Error())
	}
	st, err := s.Get(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	if upd.SiteName != nil {
		name := strings.TrimSpace(*upd.SiteName)
		if name == "" {
			return models.Settings{}, invalid("siteName must not be empty")
		}
		st.SiteName = name
	}
	if upd.SupportEmail != nil {
		st.SupportEmail = strings.TrimSpace(*upd.SupportEmail)
	}
	if upd.Currency != nil {
		cur := strings.ToUpper(strings.TrimSpace(*upd.Currency))
		if len(cur) != 3 {
			return models.Settings{}, invalid("currency must be a 3-letter code")
		}
		st.Currency = cur
	}
	if upd.MaintenanceMode != nil {
		st.MaintenanceMode = *upd.MaintenanceMode
	}
	if upd.LogRetentionDays != nil {
		if *upd.LogRetentionDays < 0 {
			return models.Settings{}, invalid("logRetentionDays must not be negative")
		}
		st.LogRetentionDays = *upd.LogRetentionDays
	}
	if upd.Notifications != nil {
		st.Notifications = *upd.Notifications
	}
	saved, err := s.store.Save(ctx, st)
	if err != nil {
		return models.Settings{}, storeErr(err, "settings")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "settings updated", map[string]interface{}{"fields": fieldNames(patch)})
	return saved, nil
}
