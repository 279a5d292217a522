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

// ContentRepository serves the four site-content collections. The kind picks
// the collection on every call.
type ContentRepository struct {
	db *mongo.Database
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{db: db}
}

func (r *ContentRepository) coll(kind models.ContentKind) *mongo.Collection {
	return r.db.Collection(kind.Collection())
}

func (r *ContentRepository) List(ctx context.Context, kind models.ContentKind, activeOnly bool) ([]models.ContentItem, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: -1}})
	return findAll[models.ContentItem](ctx, r.coll(kind), filter, opts)
}

func (r *ContentRepository) Get(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) (*models.ContentItem, error) {
	return findOne[models.ContentItem](ctx, r.coll(kind), bson.M{"_id": id})
}

func (r *ContentRepository) Create(ctx context.Context, kind models.ContentKind, item *models.ContentItem) error {
	now := time.Now().UTC()
	item.CreatedAt, item.UpdatedAt = now, now
	res, err := r.coll(kind).InsertOne(ctx, item)
	if err != nil {
		return translate(err)
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *ContentRepository) Update(ctx context.Context, kind models.ContentKind, id primitive.ObjectID, set bson.M) (*models.ContentItem, error) {
	return updateAndFetch[models.ContentItem](ctx, r.coll(kind), bson.M{"_id": id}, setWithTimestamp(set))
}

func (r *ContentRepository) Delete(ctx context.Context, kind models.ContentKind, id primitive.ObjectID) error {
	return deleteByID(ctx, r.coll(kind), id)
}
