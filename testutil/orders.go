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

type Orders struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Order
	// CreateErr fails the nth Create (1-based) when FailOn > 0.
	CreateErr error
	FailOn    int
	creates   int
}

func NewOrders() *Orders {
	return &Orders{items: map[primitive.ObjectID]*models.Order{}}
}

func (s *Orders) List(_ context.Context, f models.OrderFilter) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.items {
		switch {
		case !f.UserID.IsZero() && o.UserID != f.UserID,
			f.Status != "" && o.Status != f.Status,
			f.PaymentStatus != "" && o.PaymentStatus != f.PaymentStatus,
			f.Search != "" && !contains(o.OrderNumber+" "+o.AccountTitle, f.Search):
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return page(out, f.Pagination), int64(len(out)), nil
}

func (s *Orders) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *Orders) Create(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.FailOn > 0 && s.creates == s.FailOn {
		return s.CreateErr
	}
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	o.CreatedAt, o.UpdatedAt = now, now
	cp := *o
	s.items[o.ID] = &cp
	return nil
}

func (s *Orders) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if err := applySet(o, set); err != nil {
		return nil, err
	}
	cp := *o
	return &cp, nil
}

func (s *Orders) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Orders) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Orders) CountByStatus(_ context.Context) (map[models.OrderStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[models.OrderStatus]int64{}
	for _, o := range s.items {
		out[o.Status]++
	}
	return out, nil
}

func (s *Orders) Revenue(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, o := range s.items {
		if o.PaymentStatus == models.PaymentPaid {
			total += o.Amount
		}
	}
	return total, nil
}
