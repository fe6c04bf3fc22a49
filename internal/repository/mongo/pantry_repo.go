package mongo

import (
	"context"
	"errors"
	"time"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// One document per (user, barcode)
const pantryCollectionName = "pantry"

// mongoPantryRepository implements repository.PantryRepository using MongoDB.
type mongoPantryRepository struct {
	collection *mongo.Collection
}

// NewMongoPantryRepository creates a new repository for pantry items.
func NewMongoPantryRepository(db *mongo.Database) repository.PantryRepository {
	return &mongoPantryRepository{
		collection: db.Collection(pantryCollectionName),
	}
}

// AddOrIncrement upserts on (userId, code). Name and image are only written
// when the item is created; rescans just bump the quantity.
func (r *mongoPantryRepository) AddOrIncrement(ctx context.Context, item *domain.PantryItem) (*domain.PantryItem, error) {
	now := time.Now().UTC()
	filter := bson.M{"userId": item.UserID, "code": item.Code}
	update := bson.M{
		"$inc": bson.M{"quantidade": item.Quantity},
		"$set": bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"nome":      item.Name,
			"imagem":    item.Image,
			"createdAt": now,
		},
	}
	// Upsert + After returns the stored item whether it was created or bumped
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.PantryItem
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListByUser returns the user's items sorted by name. Never nil.
func (r *mongoPantryRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PantryItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "nome", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	// Start from an empty slice so an empty pantry encodes as [] rather than null
	items := []domain.PantryItem{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SetQuantity overwrites the quantity. It never creates an item.
func (r *mongoPantryRepository) SetQuantity(ctx context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error) {
	filter := bson.M{"userId": userID, "code": code}
	update := bson.M{"$set": bson.M{"quantidade": qty, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var stored domain.PantryItem
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &stored, nil
}

// Delete removes the item. ErrNotFound if nothing matched.
func (r *mongoPantryRepository) Delete(ctx context.Context, userID primitive.ObjectID, code string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"userId": userID, "code": code})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePantryIndexes backs the AddOrIncrement upsert with a unique key.
func EnsurePantryIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
