package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/storefront_backend/models"
)

type AccountRepository struct {
	collection *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{collection: db.Collection("accounts")}
}

func accountFilter(f models.AccountFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Subcategory != "" {
		filter["subcategory"] = f.Subcategory
	}
	if f.Game != "" {
		filter["game"] = f.Game
	}
	if f.IsOnSale != nil {
		filter["isOnSale"] = *f.IsOnSale
	}
	if f.IsFeatured != nil {
		filter["isFeatured"] = *f.IsFeatured
	}
	if f.IsWeeklyDeal != nil {
		filter["isWeeklyDeal"] = *f.IsWeeklyDeal
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	if f.Search != "" {
		re := searchRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"game": re},
		}
	}
	return filter
}

func accountSort(sort string) bson.D {
	switch sort {
	case "price_asc":
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case "price_desc":
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case "rating":
		return bson.D{{Key: "rating", Value: -1}, {Key: "_id", Value: 1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *AccountRepository) List(ctx context.Context, f models.AccountFilter) ([]models.Account, int64, error) {
	return findPage[models.Account](ctx, r.collection, accountFilter(f), accountSort(f.Sort), f.Pagination)
}

func (r *AccountRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	return findOne[models.Account](ctx, r.collection, bson.M{"_id": id})
}

func (r *AccountRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.Account, error) {
	if len(ids) == 0 {
		return []models.Account{}, nil
	}
	return findAll[models.Account](ctx, r.collection, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *AccountRepository) Create(ctx context.Context, a *models.Account) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	res, err := r.collection.InsertOne(ctx, a)
	if err != nil {
		return translate(err)
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *AccountRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Account, error) {
	return updateAndFetch[models.Account](ctx, r.collection, bson.M{"_id": id}, setWithTimestamp(set))
}

func (r *AccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// ReserveStock takes qty units from an available listing. ErrNotFound means the
// listing is missing, not available, or short on stock. A listing that reaches
// zero stock is flipped to sold.
func (r *AccountRepository) ReserveStock(ctx context.Context, id primitive.ObjectID, qty int) (*models.Account, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.AccountAvailable,
		"stock":  bson.M{"$gte": qty},
	}
	update := bson.M{
		"$inc": bson.M{"stock": -qty, "salesCount": qty},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	acc, err := updateAndFetch[models.Account](ctx, r.collection, filter, update)
	if err != nil {
		return nil, err
	}
	if acc.Stock <= 0 {
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": id, "stock": bson.M{"$lte": 0}},
			bson.M{"$set": bson.M{"status": models.AccountSold}})
		if err != nil {
			return nil, err
		}
		acc.Status = models.AccountSold
	}
	return acc, nil
}

// ReleaseStock undoes ReserveStock. Only a sold listing goes back to
// available; a status an admin set in the meantime is kept.
func (r *AccountRepository) ReleaseStock(ctx context.Context, id primitive.ObjectID, qty int) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.D{{Key: "$add", Value: bson.A{"$stock", qty}}}},
			{Key: "salesCount", Value: bson.D{{Key: "$subtract", Value: bson.A{"$salesCount", qty}}}},
			{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", models.AccountSold}}},
				models.AccountAvailable,
				"$status",
			}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AccountRepository) CountByStatus(ctx context.Context) (map[models.AccountStatus]int64, error) {
	raw, err := countBy(ctx, r.collection, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[models.AccountStatus]int64, len(raw))
	for k, v := range raw {
		out[models.AccountStatus(k)] = v
	}
	return out, nil
}
