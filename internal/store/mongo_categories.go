package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/commercia/commercia-backend/internal/models"
)

// MongoCategoryStore implements CategoryStore on a MongoDB collection.
type MongoCategoryStore struct {
	coll *mongo.Collection
}

func NewMongoCategoryStore(db *mongo.Database) *MongoCategoryStore {
	return &MongoCategoryStore{coll: db.Collection("categories")}
}

func (s *MongoCategoryStore) List(ctx context.Context, skip, limit int64) ([]models.Category, error) {
	findOptions := options.Find()
	findOptions.SetSkip(skip)
	findOptions.SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *MongoCategoryStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{})
}
