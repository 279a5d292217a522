package services

import (
	"context"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/cache"
	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/utils"
)

const (
	publicCategoriesKey = "categories:public:"
	publicCategoriesTTL = 5 * time.Minute
)

type CategoryService struct {
	store CategoryStore
	cache cache.Store
	audit *AuditLogger
}

func NewCategoryService(store CategoryStore, c cache.Store, audit *AuditLogger) *CategoryService {
	if c == nil {
		c = cache.NewMemory()
	}
	return &CategoryService{store: store, cache: c, audit: audit}
}

func (s *CategoryService) List(ctx context.Context, f models.CategoryFilter) ([]models.Category, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, invalid("invalid type %q", f.Type)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("invalid status %q", f.Status)
	}
	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "categories")
	}
	return items, nil
}

// Public lists active categories for the storefront, served from cache when warm.
func (s *CategoryService) Public(ctx context.Context, t models.CategoryType) ([]models.Category, error) {
	if t != "" && !t.Valid() {
		return nil, invalid("invalid type %q", t)
	}
	key := publicCategoriesKey + string(t)
	if raw, err := s.cache.Get(ctx, key); err == nil {
		var items []models.Category
		if err := gojson.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
	}

	items, err := s.store.List(ctx, models.CategoryFilter{Type: t, Status: models.CategoryActive})
	if err != nil {
		return nil, storeErr(err, "categories")
	}
	for i := range items {
		items[i].Subcategories = activeSubcategories(items[i].Subcategories)
	}
	if raw, err := gojson.Marshal(items); err == nil {
		if err := s.cache.Set(ctx, key, raw, publicCategoriesTTL); err != nil {
			logging.Warn().Err(err).Msg("failed to cache public categories")
		}
	}
	return items, nil
}

func activeSubcategories(subs []models.Subcategory) []models.Subcategory {
	out := []models.Subcategory{}
	for _, sub := range subs {
		if sub.IsActive {
			out = append(out, sub)
		}
	}
	return out
}

func (s *CategoryService) invalidate(ctx context.Context) {
	keys := []string{
		publicCategoriesKey,
		publicCategoriesKey + string(models.CategoryTypeAccount),
		publicCategoriesKey + string(models.CategoryTypeLicense),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		logging.Warn().Err(err).Msg("failed to invalidate category cache")
	}
}

func (s *CategoryService) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	c, err := s.store.Get(ctx, id)
	return c, storeErr(err, "category")
}

func (s *CategoryService) Create(ctx context.Context, req models.CreateCategoryRequest, actor Actor) (*models.Category, error) {
	c := &models.Category{
		Title:       strings.TrimSpace(req.Title),
		Slug:        utils.Slugify(req.Slug),
		Image:       req.Image,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		Order:       req.Order,
	}
	if c.Title == "" {
		return nil, invalid("title is required")
	}
	if !c.Type.Valid() {
		return nil, invalid("type must be account or license")
	}
	if c.Status == "" {
		c.Status = models.CategoryActive
	}
	if !c.Status.Valid() {
		return nil, invalid("invalid status %q", c.Status)
	}
	if c.Slug == "" {
		c.Slug = utils.Slugify(c.Title)
	}
	if c.Slug == "" {
		return nil, invalid("title must contain letters or digits")
	}
	for _, sr := range req.Subcategories {
		sub, err := newSubcategory(sr)
		if err != nil {
			return nil, err
		}
		c.Subcategories = append(c.Subcategories, sub)
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, storeErr(err, "category with slug "+c.Slug)
	}
	s.invalidate(ctx)
	s.audit.Info(ctx, models.LogAdmin, actor, "category created", map[string]interface{}{"categoryId": c.ID.Hex(), "slug": c.Slug})
	return s.Get(ctx, c.ID)
}

func newSubcategory(req models.CreateSubcategoryRequest) (models.Subcategory, error) {
	sub := models.Subcategory{
		ID:       primitive.NewObjectID(),
		Name:     strings.TrimSpace(req.Name),
		Slug:     utils.Slugify(req.Slug),
		Order:    req.Order,
		IsActive: true,
	}
	if sub.Name == "" {
		return sub, invalid("subcategory name is required")
	}
	if sub.Slug == "" {
		sub.Slug = utils.Slugify(sub.Name)
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	return sub, nil
}

func (s *CategoryService) Update(ctx context.Context, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.Category, error) {
	var upd models.CategoryUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Type != nil && !upd.Type.Valid() {
		return nil, invalid("type must be account or license")
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalid("invalid status %q", *upd.Status)
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, invalid("title must not be empty")
	}
	if upd.Slug != nil {
		slug := utils.Slugify(*upd.Slug)
		if slug == "" {
			return nil, invalid("slug must contain letters or digits")
		}
		upd.Slug = &slug
	}
	set, err := toSet(upd)
	if err != nil {
		return nil, err
	}
	c, err := s.store.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	s.invalidate(ctx)
	s.audit.Info(ctx, models.LogAdmin, actor, "category updated", map[string]interface{}{"categoryId": id.Hex(), "fields": fieldNames(patch)})
	return c, nil
}

// Delete leaves listings that reference the category untouched.
func (s *CategoryService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(err, "category")
	}
	s.invalidate(ctx)
	s.audit.Info(ctx, models.LogAdmin, actor, "category deleted", map[string]interface{}{"categoryId": id.Hex()})
	return nil
}

func (s *CategoryService) AddSubcategory(ctx context.Context, id primitive.ObjectID, req models.CreateSubcategoryRequest, actor Actor) (*models.Category, error) {
	sub, err := newSubcategory(req)
	if err != nil {
		return nil, err
	}
	c, err := s.store.AddSubcategory(ctx, id, sub)
	if err != nil {
		return nil, storeErr(err, "category")
	}
	s.invalidate(ctx)
	s.audit.Info(ctx, models.LogAdmin, actor, "subcategory added", map[string]interface{}{"categoryId": id.Hex(), "subcategoryId": sub.ID.Hex()})
	return c, nil
}

func (s *CategoryService) UpdateSubcategory(ctx context.Context, id, subID primitive.ObjectID, patch models.Patch, actor Actor) (*models.Category, error) {
	var upd models.SubcategoryUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	set := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, invalid("subcategory name must not be empty")
		}
		set["name"] = name
	}
	if upd.Slug != nil {
		slug := utils.Slugify(*upd.Slug)
		if slug == "" {
			return nil, invalid("slug must contain letters or digits")
		}
		set["slug"] = slug
	}
	if upd.Order != nil {
		set["order"] = *upd.Order
	}
	if upd.IsActive != nil {
		set["isActive"] = *upd.IsActive
	}
	c, err := s.store.UpdateSubcategory(ctx, id, subID, set)
	if err != nil {
		return nil, storeErr(err, "subcategory")
	}
	s.invalidate(ctx)
	s.audit.Info(ctx, models.LogAdmin, actor, "subcategory updated", map[string]interface{}{"categoryId": id.Hex(), "subcategoryId": subID.Hex()})
	return c, nil
}

func (s *CategoryService) RemoveSubcategory(ctx context.Context, id, subID primitive.ObjectID, actor Actor) (*models.Category, error) {
	c, err := s.store.RemoveSubcategory(ctx, id, subID)
	if err != nil {
		return nil, storeErr(err, "subcategory")
	}
	s.invalidate(ctx)
	s.audit.Info(ctx, models.LogAdmin, actor, "subcategory removed", map[string]interface{}{"categoryId": id.Hex(), "subcategoryId": subID.Hex()})
	return c, nil
}
