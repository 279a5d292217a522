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

type Notifications struct {
	mu        sync.Mutex
	items     []*models.Notification
	CreateErr error
}

func NewNotifications() *Notifications { return &Notifications{} }

func (s *Notifications) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.CreateErr != nil {
		return s.CreateErr
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()
	if n.Channels == nil {
		n.Channels = []string{}
	}
	cp := *n
	s.items = append(s.items, &cp)
	return nil
}

// All returns every stored notification in insertion order.
func (s *Notifications) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.items))
	for _, n := range s.items {
		out = append(out, *n)
	}
	return out
}

func (s *Notifications) find(id, userID primitive.ObjectID) *models.Notification {
	for _, n := range s.items {
		if n.ID == id && (userID.IsZero() || n.UserID == userID) {
			return n
		}
	}
	return nil
}

func (s *Notifications) ListForUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Notification{}
	for i := len(s.items) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if s.items[i].UserID == userID {
			out = append(out, *s.items[i])
		}
	}
	return out, nil
}

func (s *Notifications) MarkDelivered(_ context.Context, id primitive.ObjectID, channels []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(id, primitive.NilObjectID); n != nil {
		n.Channels = append([]string{}, channels...)
		n.Delivered = len(channels) > 0
	}
	return nil
}

func (s *Notifications) MarkRead(_ context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.find(id, userID)
	if n == nil {
		return nil, repositories.ErrNotFound
	}
	now := time.Now().UTC()
	n.IsRead, n.ReadAt = true, &now
	cp := *n
	return &cp, nil
}

func (s *Notifications) MarkClicked(_ context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.find(id, userID)
	if n == nil {
		return nil, repositories.ErrNotFound
	}
	now := time.Now().UTC()
	n.IsRead, n.ClickedAt = true, &now
	if n.ReadAt == nil {
		n.ReadAt = &now
	}
	cp := *n
	return &cp, nil
}

func (s *Notifications) Counts(_ context.Context, notificationType string) (models.NotificationCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var c models.NotificationCounts
	for _, n := range s.items {
		if n.Type != notificationType {
			continue
		}
		c.Sent++
		if n.Delivered {
			c.Delivered++
		}
		if n.IsRead {
			c.Opened++
		}
		if n.ClickedAt != nil {
			c.Clicked++
		}
	}
	return c, nil
}

type Logs struct {
	mu    sync.Mutex
	items []models.Log
}

func NewLogs(seed ...models.Log) *Logs { return &Logs{items: seed} }

func (s *Logs) Insert(_ context.Context, l *models.Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = primitive.NewObjectID()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	s.items = append(s.items, *l)
	return nil
}

// All returns a copy of every log in insertion order.
func (s *Logs) All() []models.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Log{}, s.items...)
}

func (s *Logs) List(_ context.Context, f models.LogFilter) ([]models.Log, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Log
	for i := len(s.items) - 1; i >= 0; i-- {
		l := s.items[i]
		if (f.Level != "" && l.Level != f.Level) || (f.Category != "" && l.Category != f.Category) {
			continue
		}
		if f.Search != "" && !contains(l.Message, f.Search) {
			continue
		}
		out = append(out, l)
	}
	return page(out, f.Pagination), int64(len(out)), nil
}

func (s *Logs) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	var n int64
	for _, l := range s.items {
		if cutoff.IsZero() || l.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	s.items = kept
	return n, nil
}

type Blog struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.BlogPost
}

func NewBlog() *Blog { return &Blog{items: map[primitive.ObjectID]*models.BlogPost{}} }

func (s *Blog) List(_ context.Context, f models.BlogFilter) ([]models.BlogPost, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BlogPost
	for _, p := range s.items {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Tag != "" && !hasString(p.Tags, f.Tag) {
			continue
		}
		if f.Search != "" && !contains(p.Title+" "+p.Excerpt, f.Search) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return page(out, f.Pagination), int64(len(out)), nil
}

func hasString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *Blog) Get(_ context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Blog) GetBySlug(_ context.Context, slug string) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *Blog) Create(_ context.Context, p *models.BlogPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Slug == p.Slug {
			return repositories.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	s.items[p.ID] = &cp
	return nil
}

func (s *Blog) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
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
	if err := applySet(p, set); err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (s *Blog) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Blog) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.items[id]; ok {
		p.Views++
	}
	return nil
}

type Tickets struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Ticket
}

func NewTickets() *Tickets { return &Tickets{items: map[primitive.ObjectID]*models.Ticket{}} }

func cloneTicket(t *models.Ticket) *models.Ticket {
	cp := *t
	cp.Messages = append([]models.TicketMessage{}, t.Messages...)
	return &cp
}

func (s *Tickets) List(_ context.Context, f models.TicketFilter) ([]models.Ticket, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.items {
		switch {
		case !f.UserID.IsZero() && t.UserID != f.UserID,
			f.Status != "" && t.Status != f.Status,
			f.Priority != "" && t.Priority != f.Priority,
			f.Search != "" && !contains(t.Subject+" "+t.TicketNumber, f.Search):
			continue
		}
		out = append(out, *cloneTicket(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return page(out, f.Pagination), int64(len(out)), nil
}

func (s *Tickets) Get(_ context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneTicket(t), nil
}

func (s *Tickets) Create(_ context.Context, t *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.CreatedAt, t.UpdatedAt = now, now
	s.items[t.ID] = cloneTicket(t)
	return nil
}

func (s *Tickets) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if err := applySet(t, set); err != nil {
		return nil, err
	}
	return cloneTicket(t), nil
}

func (s *Tickets) AppendMessage(_ context.Context, id primitive.ObjectID, msg models.TicketMessage, status models.TicketStatus) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	t.Messages = append(t.Messages, msg)
	if status != "" {
		t.Status = status
	}
	t.UpdatedAt = time.Now().UTC()
	return cloneTicket(t), nil
}

func (s *Tickets) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Tickets) CountOpen(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, t := range s.items {
		if t.Status == models.TicketOpen || t.Status == models.TicketInProgress {
			n++
		}
	}
	return n, nil
}

type Content struct {
	mu    sync.Mutex
	items map[models.ContentKind][]*models.ContentItem
}

func NewContent() *Content {
	return &Content{items: map[models.ContentKind][]*models.ContentItem{}}
}

func (s *Content) List(_ context.Context, kind models.ContentKind, activeOnly bool) ([]models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ContentItem{}
	for _, it := range s.items[kind] {
		if activeOnly && !it.IsActive {
			continue
		}
		out = append(out, *it)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Content) find(kind models.ContentKind, id primitive.ObjectID) (int, *models.ContentItem) {
	for i, it := range s.items[kind] {
		if it.ID == id {
			return i, it
		}
	}
	return -1, nil
}

func (s *Content) Get(_ context.Context, kind models.ContentKind, id primitive.ObjectID) (*models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, it := s.find(kind, id)
	if it == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (s *Content) Create(_ context.Context, kind models.ContentKind, item *models.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	item.ID = primitive.NewObjectID()
	item.CreatedAt, item.UpdatedAt = now, now
	cp := *item
	s.items[kind] = append(s.items[kind], &cp)
	return nil
}

func (s *Content) Update(_ context.Context, kind models.ContentKind, id primitive.ObjectID, set bson.M) (*models.ContentItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, it := s.find(kind, id)
	if it == nil {
		return nil, repositories.ErrNotFound
	}
	if err := applySet(it, set); err != nil {
		return nil, err
	}
	cp := *it
	return &cp, nil
}

func (s *Content) Delete(_ context.Context, kind models.ContentKind, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, it := s.find(kind, id)
	if it == nil {
		return repositories.ErrNotFound
	}
	s.items[kind] = append(s.items[kind][:i:i], s.items[kind][i+1:]...)
	return nil
}

type Settings struct {
	mu    sync.Mutex
	saved *models.Settings
}

func NewSettings() *Settings { return &Settings{} }

// NewSettingsWith starts from an already saved document.
func NewSettingsWith(st models.Settings) *Settings {
	st.Key = models.SettingsKey
	return &Settings{saved: &st}
}

func (s *Settings) Get(_ context.Context) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		return models.DefaultSettings(), nil
	}
	return *s.saved, nil
}

func (s *Settings) Save(_ context.Context, st models.Settings) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.Key = models.SettingsKey
	st.UpdatedAt = time.Now().UTC()
	s.saved = &st
	return st, nil
}
