package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/storefront_backend/models"
)

// The store interfaces are satisfied by the Mongo repositories and by the
// in-memory stores in testutil.

type AccountStore interface {
	List(ctx context.Context, f models.AccountFilter) ([]models.Account, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error)
	Create(ctx context.Context, a *models.Account) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Account, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Account, error)
	ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error
	CountByStatus(ctx context.Context) (map[models.AccountStatus]int64, error)
}

type CategoryStore interface {
	List(ctx context.Context, f models.CategoryFilter) ([]models.Category, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddSubcategory(ctx context.Context, id primitive.ObjectID, sub models.Subcategory) (*models.Category, error)
	UpdateSubcategory(ctx context.Context, id, subID primitive.ObjectID, set bson.M) (*models.Category, error)
	RemoveSubcategory(ctx context.Context, id, subID primitive.ObjectID) (*models.Category, error)
}

type UserStore interface {
	List(ctx context.Context, f models.UserFilter) ([]models.User, int64, error)
	All(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	SetCart(ctx context.Context, id primitive.ObjectID, cart []models.CartItem) (*models.User, error)
	PullCartItems(ctx context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.User, error)
	DebitBalance(ctx context.Context, id primitive.ObjectID, amount float64) (*models.User, error)
	CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error
	TouchActivity(ctx context.Context, id primitive.ObjectID, at time.Time) error
	MarkOffline(ctx context.Context, before time.Time) (int64, error)
}

type OrderStore interface {
	List(ctx context.Context, f models.OrderFilter) ([]models.Order, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Create(ctx context.Context, o *models.Order) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int64, error)
	Revenue(ctx context.Context) (float64, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID, channels []string) error
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error)
	MarkClicked(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error)
	Counts(ctx context.Context, notificationType string) (models.NotificationCounts, error)
}

type LogStore interface {
	Insert(ctx context.Context, l *models.Log) error
	List(ctx context.Context, f models.LogFilter) ([]models.Log, int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type BlogStore interface {
	List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, p *models.BlogPost) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.BlogPost, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
}

type TicketStore interface {
	List(ctx context.Context, f models.TicketFilter) ([]models.Ticket, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	Create(ctx context.Context, t *models.Ticket) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Ticket, error)
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.TicketMessage, status models.TicketStatus) (*models.Ticket, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountOpen(ctx context.Context) (int64, error)
}

type ContentStore interface {
	List(ctx context.Context, kind models.ContentKind, activeOnly bool) ([]models.ContentItem, error)
	Get(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) (*models.ContentItem, error)
	Create(ctx context.Context, kind models.ContentKind, item *models.ContentItem) error
	Update(ctx context.Context, kind models.ContentKind, id primitive.ObjectID, set bson.M) (*models.ContentItem, error)
	Delete(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) error
}

type SettingsStore interface {
	Get(ctx context.Context) (models.Settings, error)
	Save(ctx context.Context, s models.Settings) (models.Settings, error)
}
