package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrTodoNotFound = errors.New("todo not found")

// ListLimit caps ListByOwner results. There is no pagination beyond the cap.
const ListLimit = 100

type Todo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Completed   bool               `bson:"completed" json:"completed"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
}

// TodoUpdate carries a partial update. Nil fields were absent from the
// request and must not touch the stored document.
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
}

// setDocument builds the $set payload from the supplied fields only.
func (u TodoUpdate) setDocument() bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Completed != nil {
		set["completed"] = *u.Completed
	}
	return set
}

type TodoRepository struct {
	coll *mongo.Collection
}

func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{coll: db.Todos()}
}

func (r *TodoRepository) Create(ctx context.Context, ownerID primitive.ObjectID, title, description string) (*Todo, error) {
	todo := &Todo{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: description,
		Completed:   false,
		OwnerID:     ownerID,
	}

	if _, err := r.coll.InsertOne(ctx, todo); err != nil {
		return nil, err
	}

	return todo, nil
}

// ListByOwner returns up to ListLimit todos in insertion order.
func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]Todo, error) {
	opts := options.Find().
		SetLimit(ListLimit).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}

	todos := []Todo{}
	if err := cursor.All(ctx, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// GetOwned fetches a todo with ownership baked into the filter, so a todo
// belonging to another user is indistinguishable from one that does not exist.
func (r *TodoRepository) GetOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*Todo, error) {
	todo := &Todo{}
	err := r.coll.FindOne(ctx, ownedFilter(id, ownerID)).Decode(todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// Update applies the supplied fields atomically and returns the updated
// document. An empty update degenerates to an owned fetch.
func (r *TodoRepository) Update(ctx context.Context, id, ownerID primitive.ObjectID, update TodoUpdate) (*Todo, error) {
	set := update.setDocument()
	if len(set) == 0 {
		return r.GetOwned(ctx, id, ownerID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	todo := &Todo{}
	err := r.coll.FindOneAndUpdate(ctx, ownedFilter(id, ownerID), bson.M{"$set": set}, opts).Decode(todo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID primitive.ObjectID) error {
	result, err := r.coll.DeleteOne(ctx, ownedFilter(id, ownerID))
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrTodoNotFound
	}
	return nil
}

func ownedFilter(id, ownerID primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "owner_id": ownerID}
}
