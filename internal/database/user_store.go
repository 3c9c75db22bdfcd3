package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

var ErrEmailTaken = errors.New("email already registered")

type UserStore struct {
	users *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{users: db.Collection(usersCollection)}
}

// Create inserts the user and fills in its id. The unique email index turns
// duplicate registrations into ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Addresses == nil {
		user.Addresses = []models.Address{}
	}

	res, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	if err != nil {
		return classify("insert user", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *UserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// SaveAddresses replaces the whole address book of the user.
func (s *UserStore) SaveAddresses(ctx context.Context, id primitive.ObjectID, addresses []models.Address) error {
	res, err := s.users.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"addresses": addresses,
			"updatedAt": time.Now().UTC(),
		},
	})
	if err != nil {
		return classify("update addresses", err)
	}
	if res.MatchedCount == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, catalog.ErrNotFound
	}
	if err != nil {
		return models.User{}, classify("find user", err)
	}
	return user, nil
}
