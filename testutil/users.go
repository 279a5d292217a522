package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/repositories"
)

type Users struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.User
	// AllErr is returned by All when set.
	AllErr error
}

func NewUsers(seed ...models.User) *Users {
	s := &Users{items: map[primitive.ObjectID]*models.User{}}
	for i := range seed {
		u := seed[i]
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		s.items[u.ID] = &u
	}
	return s
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Cart = append([]models.CartItem{}, u.Cart...)
	return &cp
}

func (s *Users) sorted() []models.User {
	out := make([]models.User, 0, len(s.items))
	for _, u := range s.items {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out
}

func (s *Users) List(_ context.Context, f models.UserFilter) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.sorted() {
		if (f.Role != "" && u.Role != f.Role) || (f.Status != "" && u.Status != f.Status) {
			continue
		}
		if f.Search != "" && !contains(u.Name+" "+u.Email, f.Search) {
			continue
		}
		out = append(out, u)
	}
	return page(out, f.Pagination), int64(len(out)), nil
}

func (s *Users) All(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AllErr != nil {
		return nil, s.AllErr
	}
	return s.sorted(), nil
}

func (s *Users) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Users) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.LastActivityAt.IsZero() {
		u.LastActivityAt = now
	}
	if u.Cart == nil {
		u.Cart = []models.CartItem{}
	}
	s.items[u.ID] = cloneUser(u)
	return nil
}

func (s *Users) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if email, ok := set["email"].(string); ok {
		for otherID, other := range s.items {
			if otherID != id && other.Email == email {
				return nil, repositories.ErrDuplicate
			}
		}
	}
	if err := applySet(u, set); err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (s *Users) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Users) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}

func (s *Users) SetCart(_ context.Context, id primitive.ObjectID, cart []models.CartItem) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if cart == nil {
		cart = []models.CartItem{}
	}
	now := time.Now().UTC()
	u.Cart = append([]models.CartItem{}, cart...)
	u.UpdatedAt, u.LastActivityAt = now, now
	return cloneUser(u), nil
}

func (s *Users) PullCartItems(_ context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	drop := make(map[primitive.ObjectID]bool, len(productIDs))
	for _, p := range productIDs {
		drop[p] = true
	}
	kept := []models.CartItem{}
	for _, it := range u.Cart {
		if !drop[it.ProductID] {
			kept = append(kept, it)
		}
	}
	u.Cart = kept
	return cloneUser(u), nil
}

func (s *Users) DebitBalance(_ context.Context, id primitive.ObjectID, amount float64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok || u.Balance < amount {
		return nil, repositories.ErrNotFound
	}
	u.Balance -= amount
	return cloneUser(u), nil
}

func (s *Users) CreditBalance(_ context.Context, id primitive.ObjectID, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Balance += amount
	return nil
}

func (s *Users) TouchActivity(_ context.Context, id primitive.ObjectID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.items[id]; ok {
		u.LastActivityAt = at
		u.IsOnline = true
	}
	return nil
}

func (s *Users) MarkOffline(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, u := range s.items {
		if u.IsOnline && u.LastActivityAt.Before(before) {
			u.IsOnline = false
			n++
		}
	}
	return n, nil
}
