package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/commercia/commercia-backend/internal/models"
)

// MongoUserStore implements UserStore on a MongoDB collection.
type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		// The unique index is the authoritative duplicate guard; a
		// concurrent registration can slip past the pre-insert check.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) VerifyByEmailAndCode(ctx context.Context, email, code string, now time.Time) (bool, error) {
	// Single FindOneAndUpdate so two concurrent verification attempts
	// with a still-valid code cannot both succeed.
	filter := bson.M{
		"email":                     email,
		"verification_code":         code,
		"verification_code_expires": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{
		"is_verified":               true,
		"verification_code":         nil,
		"verification_code_expires": nil,
		"updated_at":                now,
	}}

	err := s.coll.FindOneAndUpdate(ctx, filter, update).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MongoUserStore) ReplaceInterests(ctx context.Context, id string, categoryIDs []primitive.ObjectID) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"interested_categories": categoryIDs,
		"updated_at":            time.Now(),
	}}
	res, err := s.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
