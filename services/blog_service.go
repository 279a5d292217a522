package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/logging"
	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/utils"
)

type BlogService struct {
	store BlogStore
	audit *AuditLogger
}

func NewBlogService(store BlogStore, audit *AuditLogger) *BlogService {
	return &BlogService{store: store, audit: audit}
}

func (s *BlogService) List(ctx context.Context, f models.BlogFilter) (models.Page[models.BlogPost], error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.BlogPost]{}, invalid("invalid status %q", f.Status)
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return models.Page[models.BlogPost]{}, storeErr(err, "blog posts")
	}
	return models.NewPage(items, total, f.Pagination), nil
}

// Published lists posts visible on the storefront.
func (s *BlogService) Published(ctx context.Context, f models.BlogFilter) (models.Page[models.BlogPost], error) {
	f.Status = models.BlogPublished
	return s.List(ctx, f)
}

// Read returns a published post by slug and counts the view.
func (s *BlogService) Read(ctx context.Context, slug string) (*models.BlogPost, error) {
	p, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeErr(err, "post")
	}
	if p.Status != models.BlogPublished {
		return nil, fail(ErrNotFound, "post not found")
	}
	if err := s.store.IncrementViews(ctx, p.ID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("postId", p.ID.Hex()).Msg("failed to count blog view")
	} else {
		p.Views++
	}
	return p, nil
}

func (s *BlogService) Get(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	p, err := s.store.Get(ctx, id)
	return p, storeErr(err, "post")
}

func (s *BlogService) Create(ctx context.Context, req models.CreateBlogPostRequest, actor Actor) (*models.BlogPost, error) {
	p := &models.BlogPost{
		Title:      strings.TrimSpace(req.Title),
		Slug:       utils.Slugify(req.Slug),
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		CoverImage: req.CoverImage,
		Tags:       req.Tags,
		Author:     strings.TrimSpace(req.Author),
		Status:     req.Status,
	}
	if p.Title == "" || strings.TrimSpace(p.Content) == "" {
		return nil, invalid("title and content are required")
	}
	if p.Slug == "" {
		p.Slug = utils.Slugify(p.Title)
	}
	if p.Status == "" {
		p.Status = models.BlogDraft
	}
	if !p.Status.Valid() {
		return nil, invalid("invalid status %q", p.Status)
	}
	if p.Status == models.BlogPublished {
		now := time.Now().UTC()
		p.PublishedAt = &now
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, storeErr(err, "post with slug "+p.Slug)
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "blog post created", map[string]interface{}{"postId": p.ID.Hex(), "slug": p.Slug})
	return s.Get(ctx, p.ID)
}

func (s *BlogService) Update(ctx context.Context, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.BlogPost, error) {
	var upd models.BlogPostUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalid("invalid status %q", *upd.Status)
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
	if upd.Status != nil && *upd.Status == models.BlogPublished {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, storeErr(err, "post")
		}
		if current.PublishedAt == nil {
			set["publishedAt"] = time.Now().UTC()
		}
	}
	p, err := s.store.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "post")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "blog post updated", map[string]interface{}{"postId": id.Hex(), "fields": fieldNames(patch)})
	return p, nil
}

func (s *BlogService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(err, "post")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "blog post deleted", map[string]interface{}{"postId": id.Hex()})
	return nil
}
