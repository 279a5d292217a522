package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
)

// ContentService manages sliders, testimonials, announcements and popular categories.
type ContentService struct {
	store ContentStore
	audit *AuditLogger
}

func NewContentService(store ContentStore, audit *AuditLogger) *ContentService {
	return &ContentService{store: store, audit: audit}
}

func checkKind(kind models.ContentKind) error {
	if !kind.Valid() {
		return fail(ErrNotFound, "unknown content kind %q", kind)
	}
	return nil
}

func (s *ContentService) List(ctx context.Context, kind models.ContentKind, activeOnly bool) ([]models.ContentItem, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	items, err := s.store.List(ctx, kind, activeOnly)
	if err != nil {
		return nil, storeErr(err, string(kind))
	}
	return items, nil
}

func (s *ContentService) Create(ctx context.Context, kind models.ContentKind, item models.ContentItem, actor Actor) (*models.ContentItem, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := validateContent(kind, item); err != nil {
		return nil, err
	}
	item.ID = primitive.NilObjectID
	if err := s.store.Create(ctx, kind, &item); err != nil {
		return nil, storeErr(err, string(kind))
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "content created", map[string]interface{}{"kind": string(kind), "id": item.ID.Hex()})
	created, err := s.store.Get(ctx, kind, item.ID)
	return created, storeErr(err, string(kind))
}

func validateContent(kind models.ContentKind, item models.ContentItem) error {
	switch kind {
	case models.ContentSliders:
		if item.Title == "" || item.Image == "" {
			return invalid("slider needs a title and an image")
		}
	case models.ContentTestimonials:
		if item.Name == "" || item.Content == "" {
			return invalid("testimonial needs a name and content")
		}
		if item.Rating < 0 || item.Rating > 5 {
			return invalid("rating must be between 0 and 5")
		}
	case models.ContentAnnouncements:
		if item.Title == "" || item.Message == "" {
			return invalid("announcement needs a title and a message")
		}
		if item.StartsAt != nil && item.EndsAt != nil && item.EndsAt.Before(*item.StartsAt) {
			return invalid("endsAt must be after startsAt")
		}
	case models.ContentPopularCategories:
		if item.Title == "" {
			return invalid("popular category needs a title")
		}
	}
	return nil
}

func (s *ContentService) Update(ctx context.Context, kind models.ContentKind, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.ContentItem, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	var upd models.ContentUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Rating != nil && (*upd.Rating < 0 || *upd.Rating > 5) {
		return nil, invalid("rating must be between 0 and 5")
	}
	set, err := toSet(upd)
	if err != nil {
		return nil, err
	}
	item, err := s.store.Update(ctx, kind, id, set)
	if err != nil {
		return nil, storeErr(err, string(kind))
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "content updated", map[string]interface{}{"kind": string(kind), "id": id.Hex(), "fields": fieldNames(patch)})
	return item, nil
}

func (s *ContentService) Delete(ctx context.Context, kind models.ContentKind, id primitive.ObjectID, actor Actor) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, kind, id); err != nil {
		return storeErr(err, string(kind))
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "content deleted", map[string]interface{}{"kind": string(kind), "id": id.Hex()})
	return nil
}
