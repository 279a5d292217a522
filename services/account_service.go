package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
)

type AccountService struct {
	store AccountStore
	audit *AuditLogger
}

func NewAccountService(store AccountStore, audit *AuditLogger) *AccountService {
	return &AccountService{store: store, audit: audit}
}

func (s *AccountService) List(ctx context.Context, f models.AccountFilter) (models.Page[models.Account], error) {
	if f.Status != "" && !f.Status.Valid() {
		return models.Page[models.Account]{}, invalid("invalid status %q", f.Status)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return models.Page[models.Account]{}, invalid("minPrice must not exceed maxPrice")
	}
	f.Pagination = f.Pagination.Normalize()
	items, total, err := s.store.List(ctx, f)
	if err != nil {
		return models.Page[models.Account]{}, storeErr(err, "accounts")
	}
	return models.NewPage(items, total, f.Pagination), nil
}

func (s *AccountService) Get(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	a, err := s.store.Get(ctx, id)
	return a, storeErr(err, "account")
}

func (s *AccountService) Create(ctx context.Context, req models.CreateAccountRequest, actor Actor) (*models.Account, error) {
	a := &models.Account{
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Price:              req.Price,
		OriginalPrice:      req.OriginalPrice,
		DiscountPercentage: req.DiscountPercentage,
		IsOnSale:           req.IsOnSale,
		IsFeatured:         req.IsFeatured,
		IsWeeklyDeal:       req.IsWeeklyDeal,
		Status:             req.Status,
		Stock:              1,
		Category:           req.Category,
		Subcategory:        req.Subcategory,
		Game:               req.Game,
		Rank:               req.Rank,
		Level:              req.Level,
		Images:             req.Images,
		Rating:             req.Rating,
		Features:           req.Features,
		DeliveryInfo:       req.DeliveryInfo,
	}
	if a.Title == "" {
		return nil, invalid("title is required")
	}
	if a.Status == "" {
		a.Status = models.AccountAvailable
	}
	if !a.Status.Valid() {
		return nil, invalid("invalid status %q", a.Status)
	}
	if req.Stock != nil {
		a.Stock = *req.Stock
	}
	if a.Images == nil {
		a.Images = []string{}
	}
	if err := ApplyPricing(a); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, storeErr(err, "account")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "account created", map[string]interface{}{"accountId": a.ID.Hex(), "title": a.Title})
	return s.Get(ctx, a.ID)
}

// Update applies a partial update and returns the stored document.
func (s *AccountService) Update(ctx context.Context, id primitive.ObjectID, patch models.Patch, actor Actor) (*models.Account, error) {
	var upd models.AccountUpdate
	if err := patch.Decode(&upd); err != nil {
		return nil, invalid("%s", err.Error())
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return nil, invalid("invalid status %q", *upd.Status)
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, invalid("title must not be empty")
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return nil, invalid("stock must not be negative")
	}
	if upd.Rating != nil && (*upd.Rating < 0 || *upd.Rating > 5) {
		return nil, invalid("rating must be between 0 and 5")
	}

	set, err := toSet(upd)
	if err != nil {
		return nil, err
	}

	if upd.TouchesPricing() {
		current, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, storeErr(err, "account")
		}
		merged := *current
		if upd.Price != nil {
			merged.Price = *upd.Price
		}
		if upd.OriginalPrice != nil {
			merged.OriginalPrice = *upd.OriginalPrice
		}
		if upd.DiscountPercentage != nil {
			merged.DiscountPercentage = *upd.DiscountPercentage
		}
		if upd.IsOnSale != nil {
			merged.IsOnSale = *upd.IsOnSale
		}
		if err := ApplyPricing(&merged); err != nil {
			return nil, err
		}
		set["price"] = merged.Price
		set["originalPrice"] = merged.OriginalPrice
	}

	a, err := s.store.Update(ctx, id, set)
	if err != nil {
		return nil, storeErr(err, "account")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "account updated", map[string]interface{}{"accountId": id.Hex(), "fields": fieldNames(patch)})
	return a, nil
}

func (s *AccountService) Delete(ctx context.Context, id primitive.ObjectID, actor Actor) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(err, "account")
	}
	s.audit.Info(ctx, models.LogAdmin, actor, "account deleted", map[string]interface{}{"accountId": id.Hex()})
	return nil
}

func fieldNames(p models.Patch) string {
	names := make([]string, 0, len(p))
	for k := range p {
		names = append(names, k)
	}
	return fmt.Sprint(sortedStrings(names))
}
