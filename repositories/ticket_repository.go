package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/storefront_backend/models"
)

type TicketRepository struct {
	collection *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{collection: db.Collection("support_tickets")}
}

func (r *TicketRepository) List(ctx context.Context, f models.TicketFilter) ([]models.Ticket, int64, error) {
	filter := bson.M{}
	if !f.UserID.IsZero() {
		filter["userId"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Priority != "" {
		filter["priority"] = f.Priority
	}
	if f.Search != "" {
		re := searchRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"subject": re}, bson.M{"ticketNumber": re}}
	}
	sort := bson.D{{Key: "updatedAt", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.Ticket](ctx, r.collection, filter, sort, f.Pagination)
}

func (r *TicketRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error) {
	return findOne[models.Ticket](ctx, r.collection, bson.M{"_id": id})
}

func (r *TicketRepository) Create(ctx context.Context, t *models.Ticket) error {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	res, err := r.collection.InsertOne(ctx, t)
	if err != nil {
		return translate(err)
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Ticket, error) {
	return updateAndFetch[models.Ticket](ctx, r.collection, bson.M{"_id": id}, setWithTimestamp(set))
}

// AppendMessage pushes a message onto the thread and optionally moves the status.
func (r *TicketRepository) AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.TicketMessage, status models.TicketStatus) (*models.Ticket, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if status != "" {
		set["status"] = status
	}
	return updateAndFetch[models.Ticket](ctx, r.collection, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  set,
	})
}

func (r *TicketRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *TicketRepository) CountOpen(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": bson.A{models.TicketOpen, models.TicketInProgress}},
	})
}
