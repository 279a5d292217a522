// repositories/user_repository.go
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

// UserRepository handles user documents, including the embedded cart.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) List(ctx context.Context, f models.UserFilter) ([]models.User, int64, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := searchRegex(f.Search)
		filter["$or"] = bson.A{bson.M{"name": re}, bson.M{"email": re}}
	}
	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	return findPage[models.User](ctx, r.collection, filter, sort, f.Pagination)
}

// All returns every user without the password hash.
func (r *UserRepository) All(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetProjection(bson.M{"password": 0})
	return findAll[models.User](ctx, r.collection, bson.M{}, opts)
}

func (r *UserRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return findOne[models.User](ctx, r.collection, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.collection, bson.M{"email": email})
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.LastActivityAt.IsZero() {
		u.LastActivityAt = now
	}
	if u.Cart == nil {
		u.Cart = []models.CartItem{}
	}
	res, err := r.collection.InsertOne(ctx, u)
	if err != nil {
		return translate(err)
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.User, error) {
	return updateAndFetch[models.User](ctx, r.collection, bson.M{"_id": id}, setWithTimestamp(set))
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// SetCart replaces the whole cart.
func (r *UserRepository) SetCart(ctx context.Context, id primitive.ObjectID, cart []models.CartItem) (*models.User, error) {
	if cart == nil {
		cart = []models.CartItem{}
	}
	now := time.Now().UTC()
	return updateAndFetch[models.User](ctx, r.collection, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"cart": cart, "updatedAt": now, "lastActivityAt": now},
	})
}

// PullCartItems removes the lines for the given listings. Missing lines are
// not an error.
func (r *UserRepository) PullCartItems(ctx context.Context, id primitive.ObjectID, productIDs []primitive.ObjectID) (*models.User, error) {
	return updateAndFetch[models.User](ctx, r.collection, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"cart": bson.M{"productId": bson.M{"$in": productIDs}}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

// DebitBalance subtracts amount only if the balance covers it. ErrNotFound
// means the user is missing or the balance is short.
func (r *UserRepository) DebitBalance(ctx context.Context, id primitive.ObjectID, amount float64) (*models.User, error) {
	return updateAndFetch[models.User](ctx, r.collection,
		bson.M{"_id": id, "balance": bson.M{"$gte": amount}},
		bson.M{
			"$inc": bson.M{"balance": -amount},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		})
}

func (r *UserRepository) CreditBalance(ctx context.Context, id primitive.ObjectID, amount float64) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"balance": amount},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchActivity records a request from the user and marks them online.
func (r *UserRepository) TouchActivity(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"lastActivityAt": at, "isOnline": true},
	})
	return err
}

// MarkOffline flags users idle since before the cutoff as offline.
func (r *UserRepository) MarkOffline(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.collection.UpdateMany(ctx,
		bson.M{"isOnline": true, "lastActivityAt": bson.M{"$lt": before}},
		bson.M{"$set": bson.M{"isOnline": false}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
