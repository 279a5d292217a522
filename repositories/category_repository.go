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

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection("categories")}
}

func (r *CategoryRepository) List(ctx context.Context, f models.CategoryFilter) ([]models.Category, error) {
	filter := bson.M{}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := searchRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"title": re}, bson.M{"slug": re}}
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "title", Value: 1}})
	return findAll[models.Category](ctx, r.collection, filter, opts)
}

func (r *CategoryRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	return findOne[models.Category](ctx, r.collection, bson.M{"_id": id})
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Subcategories == nil {
		c.Subcategories = []models.Subcategory{}
	}
	res, err := r.collection.InsertOne(ctx, c)
	if err != nil {
		return translate(err)
	}
	c.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Category, error) {
	return updateAndFetch[models.Category](ctx, r.collection, bson.M{"_id": id}, setWithTimestamp(set))
}

func (r *CategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *CategoryRepository) AddSubcategory(ctx context.Context, id primitive.ObjectID, sub models.Subcategory) (*models.Category, error) {
	return updateAndFetch[models.Category](ctx, r.collection, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"subcategories": sub},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// UpdateSubcategory sets fields of one embedded subcategory. Keys of set are
// subcategory field names.
func (r *CategoryRepository) UpdateSubcategory(ctx context.Context, id, subID primitive.ObjectID, set bson.M) (*models.Category, error) {
	fields := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		fields["subcategories.$."+k] = v
	}
	return updateAndFetch[models.Category](ctx, r.collection,
		bson.M{"_id": id, "subcategories._id": subID},
		bson.M{"$set": fields})
}

func (r *CategoryRepository) RemoveSubcategory(ctx context.Context, id, subID primitive.ObjectID) (*models.Category, error) {
	return updateAndFetch[models.Category](ctx, r.collection,
		bson.M{"_id": id, "subcategories._id": subID},
		bson.M{
			"$pull": bson.M{"subcategories": bson.M{"_id": subID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
}
