package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/storefront_backend/models"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{collection: db.Collection("notifications")}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Now().UTC()
	if n.Channels == nil {
		n.Channels = []string{}
	}
	res, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	n.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *NotificationRepository) ListForUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return findAll[models.Notification](ctx, r.collection, bson.M{"userId": userID}, opts)
}

// MarkDelivered records which channels reached the user.
func (r *NotificationRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID, channels []string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"delivered": len(channels) > 0, "channels": channels},
	})
	return err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	now := time.Now().UTC()
	return updateAndFetch[models.Notification](ctx, r.collection,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true, "readAt": now}})
}

// MarkClicked also marks the notification read.
func (r *NotificationRepository) MarkClicked(ctx context.Context, id, userID primitive.ObjectID) (*models.Notification, error) {
	now := time.Now().UTC()
	return updateAndFetch[models.Notification](ctx, r.collection,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"isRead": true, "clickedAt": now}, "$min": bson.M{"readAt": now}})
}

func (r *NotificationRepository) Counts(ctx context.Context, notificationType string) (models.NotificationCounts, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "type", Value: notificationType}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "sent", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "delivered", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$delivered", 1, 0}}}}}},
			{Key: "opened", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{"$isRead", 1, 0}}}}}},
			{Key: "clicked", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{bson.D{{Key: "$gt", Value: bson.A{"$clickedAt", nil}}}, 1, 0}}}}}},
		}}},
	}
	var counts models.NotificationCounts
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return counts, err
	}
	defer cursor.Close(ctx)

	var rows []models.NotificationCounts
	if err := cursor.All(ctx, &rows); err != nil {
		return counts, err
	}
	if len(rows) > 0 {
		counts = rows[0]
	}
	return counts, nil
}
