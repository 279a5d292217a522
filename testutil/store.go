// Package testutil provides in-memory implementations of the service stores
// for unit and handler tests.
package testutil

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/repositories"
)

// applySet copies $set values onto the struct fields whose bson name matches.
func applySet(dst interface{}, set bson.M) error {
	raw, err := bson.Marshal(dst)
	if err != nil {
		return err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range set {
		doc[k] = v
	}
	raw, err = bson.Marshal(doc)
	if err != nil {
		return err
	}
	v := reflect.ValueOf(dst).Elem()
	v.Set(reflect.Zero(v.Type()))
	return bson.Unmarshal(raw, dst)
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func page[T any](items []T, p models.Pagination) []T {
	start := int(p.Skip())
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if p.Limit <= 0 || end > len(items) {
		end = len(items)
	}
	return append([]T{}, items[start:end]...)
}

type Accounts struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Account
	Err   error
}

func NewAccounts(seed ...models.Account) *Accounts {
	s := &Accounts{items: map[primitive.ObjectID]*models.Account{}}
	for i := range seed {
		a := seed[i]
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		s.items[a.ID] = &a
	}
	return s
}

func (s *Accounts) sorted() []models.Account {
	out := make([]models.Account, 0, len(s.items))
	for _, a := range s.items {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return out
}

func (s *Accounts) List(_ context.Context, f models.AccountFilter) ([]models.Account, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var out []models.Account
	for _, a := range s.sorted() {
		switch {
		case f.Status != "" && a.Status != f.Status,
			f.Category != "" && a.Category != f.Category,
			f.Subcategory != "" && a.Subcategory != f.Subcategory,
			f.Game != "" && a.Game != f.Game,
			f.IsOnSale != nil && a.IsOnSale != *f.IsOnSale,
			f.IsFeatured != nil && a.IsFeatured != *f.IsFeatured,
			f.IsWeeklyDeal != nil && a.IsWeeklyDeal != *f.IsWeeklyDeal,
			f.MinPrice != nil && a.Price < *f.MinPrice,
			f.MaxPrice != nil && a.Price > *f.MaxPrice,
			f.Search != "" && !contains(a.Title+" "+a.Description+" "+a.Game, f.Search):
			continue
		}
		out = append(out, a)
	}
	return page(out, f.Pagination), int64(len(out)), nil
}

func (s *Accounts) Get(_ context.Context, id primitive.ObjectID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Accounts) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []models.Account{}
	for _, id := range ids {
		if a, ok := s.items[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *Accounts) Create(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CreatedAt, a.UpdatedAt = time.Now().UTC(), time.Now().UTC()
	cp := *a
	s.items[a.ID] = &cp
	return nil
}

func (s *Accounts) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if err := applySet(a, set); err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

func (s *Accounts) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Accounts) ReserveStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok || a.Status != models.AccountAvailable || a.Stock < qty {
		return nil, repositories.ErrNotFound
	}
	a.Stock -= qty
	a.SalesCount += qty
	if a.Stock <= 0 {
		a.Status = models.AccountSold
	}
	cp := *a
	return &cp, nil
}

func (s *Accounts) ReleaseStock(_ context.Context, id primitive.ObjectID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.Stock += qty
	a.SalesCount -= qty
	if a.Status == models.AccountSold {
		a.Status = models.AccountAvailable
	}
	return nil
}

func (s *Accounts) CountByStatus(_ context.Context) (map[models.AccountStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[models.AccountStatus]int64{}
	for _, a := range s.items {
		out[a.Status]++
	}
	return out, nil
}

type Categories struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Category
	Lists int
}

func NewCategories(seed ...models.Category) *Categories {
	s := &Categories{items: map[primitive.ObjectID]*models.Category{}}
	for i := range seed {
		c := seed[i]
		if c.ID.IsZero() {
			c.ID = primitive.NewObjectID()
		}
		s.items[c.ID] = &c
	}
	return s
}

func (s *Categories) List(_ context.Context, f models.CategoryFilter) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lists++
	out := []models.Category{}
	for _, c := range s.items {
		if (f.Type != "" && c.Type != f.Type) || (f.Status != "" && c.Status != f.Status) {
			continue
		}
		if f.Search != "" && !contains(c.Title+" "+c.Slug, f.Search) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *Categories) Get(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	cp.Subcategories = append([]models.Subcategory{}, c.Subcategories...)
	return &cp, nil
}

func (s *Categories) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Slug == c.Slug {
			return repositories.ErrDuplicate
		}
	}
	c.ID = primitive.NewObjectID()
	if c.Subcategories == nil {
		c.Subcategories = []models.Subcategory{}
	}
	cp := *c
	s.items[c.ID] = &cp
	return nil
}

func (s *Categories) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if slug, ok := set["slug"].(string); ok {
		for otherID, other := range s.items {
			if otherID != id && other.Slug == slug {
				return nil, repositories.ErrDuplicate
			}
		}
	}
	if err := applySet(c, set); err != nil {
		return nil, err
	}
	cp := *c
	return &cp, nil
}

func (s *Categories) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Categories) AddSubcategory(_ context.Context, id primitive.ObjectID, sub models.Subcategory) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Subcategories = append(c.Subcategories, sub)
	cp := *c
	return &cp, nil
}

func (s *Categories) UpdateSubcategory(_ context.Context, id, subID primitive.ObjectID, set bson.M) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for i := range c.Subcategories {
		if c.Subcategories[i].ID == subID {
			if err := applySet(&c.Subcategories[i], set); err != nil {
				return nil, err
			}
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Categories) RemoveSubcategory(_ context.Context, id, subID primitive.ObjectID) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	for i := range c.Subcategories {
		if c.Subcategories[i].ID == subID {
			c.Subcategories = append(c.Subcategories[:i:i], c.Subcategories[i+1:]...)
			cp := *c
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}
