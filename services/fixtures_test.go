package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
	"github.com/HSouheill/storefront_backend/testutil"
)

var (
	_ AccountStore      = (*testutil.Accounts)(nil)
	_ CategoryStore     = (*testutil.Categories)(nil)
	_ UserStore         = (*testutil.Users)(nil)
	_ OrderStore        = (*testutil.Orders)(nil)
	_ NotificationStore = (*testutil.Notifications)(nil)
	_ LogStore          = (*testutil.Logs)(nil)
	_ BlogStore         = (*testutil.Blog)(nil)
	_ TicketStore       = (*testutil.Tickets)(nil)
	_ ContentStore      = (*testutil.Content)(nil)
	_ SettingsStore     = (*testutil.Settings)(nil)
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func listing(title string, price float64, stock int) models.Account {
	return models.Account{
		ID:       primitive.NewObjectID(),
		Title:    title,
		Price:    price,
		Status:   models.AccountAvailable,
		Stock:    stock,
		Category: "games",
		Game:     title,
	}
}

func customer(name string, balance float64, cart ...models.CartItem) models.User {
	return models.User{
		ID:             primitive.NewObjectID(),
		Email:          name + "@example.com",
		Name:           name,
		Role:           models.RoleUser,
		Status:         models.UserActive,
		Balance:        balance,
		Cart:           cart,
		LastActivityAt: t0,
	}
}

func item(a models.Account, qty int, addedAt time.Time) models.CartItem {
	return models.CartItem{ProductID: a.ID, Quantity: qty, AddedAt: addedAt}
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want %v", err, kind)
	}
}

type fakePusher struct {
	mu        sync.Mutex
	connected map[primitive.ObjectID]bool
	sent      []interface{}
	err       error
}

func (p *fakePusher) IsConnected(id primitive.ObjectID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected[id]
}

func (p *fakePusher) SendToUser(_ primitive.ObjectID, msg interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, msg)
	return nil
}

type fakeFCM struct {
	mu   sync.Mutex
	msgs []*messaging.Message
	err  error
}

func (f *fakeFCM) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.msgs = append(f.msgs, m)
	return "projects/test/messages/1", nil
}

type fakeMailer struct {
	mu          sync.Mutex
	to          []string
	err         error
	calls       int
	noDeadlines int
}

func (m *fakeMailer) Send(ctx context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := ctx.Deadline(); !ok {
		m.noDeadlines++
	}
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	return nil
}
