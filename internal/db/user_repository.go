package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailExists = errors.New("email already exists")

// User is immutable after signup; there are no update or delete paths.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash" json:"-"`
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{coll: db.Users()}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Insert stores a new user. The unique index on email turns a concurrent
// duplicate signup into ErrEmailExists here even when the caller's
// FindByEmail check passed.
func (r *UserRepository) Insert(ctx context.Context, name, email, passwordHash string) (*User, error) {
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}
