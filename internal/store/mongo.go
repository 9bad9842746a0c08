package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kritika-v/stockwatch/backend/internal/models"
)

// ErrDuplicateUsername is returned when an insert hits the unique username index.
var ErrDuplicateUsername = errors.New("username already taken")

// MongoUserStore handles user CRUD in MongoDB.
type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection("users")}
}

// EnsureIndexes creates the unique username index. Without it, two concurrent
// registrations of the same name can both pass the lookup and both insert.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users index: %w", err)
	}
	return nil
}

// CreateUser inserts a user document with an already-hashed password.
func (s *MongoUserStore) CreateUser(ctx context.Context, username, hashedPw, preferredStock string) (*models.User, error) {
	u := &models.User{
		Username:       username,
		Password:       hashedPw,
		PreferredStock: preferredStock,
	}
	if _, err := s.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("mongo insert user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns the user with the given username, or nil if none exists.
func (s *MongoUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find user: %w", err)
	}
	return &u, nil
}
