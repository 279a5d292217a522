package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/storefront_backend/models"
)

// LogRepository stores audit entries. Entries are never updated.
type LogRepository struct {
	collection *mongo.Collection
}

func NewLogRepository(db *mongo.Database) *LogRepository {
	return &LogRepository{collection: db.Collection("logs")}
}

func (r *LogRepository) Insert(ctx context.Context, l *models.Log) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection.InsertOne(ctx, l)
	return err
}

func (r *LogRepository) List(ctx context.Context, f models.LogFilter) ([]models.Log, int64, error) {
	filter := bson.M{}
	if f.Level != "" {
		filter["level"] = f.Level
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Search != "" {
		filter["message"] = searchRegex(f.Search)
	}
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.Log](ctx, r.collection, filter, sort, f.Pagination)
}

// DeleteBefore removes entries older than cutoff. A zero cutoff clears the collection.
func (r *LogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	filter := bson.M{}
	if !cutoff.IsZero() {
		filter["createdAt"] = bson.M{"$lt": cutoff}
	}
	res, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
