package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/storefront_backend/models"
)

type BlogRepository struct {
	collection *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) *BlogRepository {
	return &BlogRepository{collection: db.Collection("blogs")}
}

func (r *BlogRepository) List(ctx context.Context, f models.BlogFilter) ([]models.BlogPost, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.Search != "" {
		re := searchRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"title": re}, bson.M{"excerpt": re}, bson.M{"content": re}}
	}
	sort := bson.D{{Key: "publishedAt", Value: -1}, {Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.BlogPost](ctx, r.collection, filter, sort, f.Pagination)
}

func (r *BlogRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	return findOne[models.BlogPost](ctx, r.collection, bson.M{"_id": id})
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return findOne[models.BlogPost](ctx, r.collection, bson.M{"slug": slug})
}

func (r *BlogRepository) Create(ctx context.Context, p *models.BlogPost) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Tags == nil {
		p.Tags = []string{}
	}
	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return translate(err)
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *BlogRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.BlogPost, error) {
	return updateAndFetch[models.BlogPost](ctx, r.collection, bson.M{"_id": id}, setWithTimestamp(set))
}

func (r *BlogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *BlogRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}
