package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HSouheill/storefront_backend/models"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{collection: db.Collection("settings")}
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	err := r.collection.FindOne(ctx, bson.M{"_id": models.SettingsKey}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) (models.Settings, error) {
	s.Key = models.SettingsKey
	s.UpdatedAt = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": models.SettingsKey}, s, opts); err != nil {
		return models.Settings{}, err
	}
	return r.Get(ctx)
}
