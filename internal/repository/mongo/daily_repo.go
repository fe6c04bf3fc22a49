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

// Collection holding one document per user per calendar day
const dailyCollectionName = "daily"

// mongoDailyRepository implements repository.DailyRepository. Documents are
// addressed by (userId, date) and only ever touched with field-level updates
// so concurrent writers do not clobber each other's fields.
type mongoDailyRepository struct {
	collection *mongo.Collection
}

// NewMongoDailyRepository creates a new repository for daily documents.
func NewMongoDailyRepository(db *mongo.Database) repository.DailyRepository {
	return &mongoDailyRepository{
		collection: db.Collection(dailyCollectionName),
	}
}

// dayFilter addresses a single day. date is the YYYY-MM-DD string, not a timestamp.
func dayFilter(userID primitive.ObjectID, date string) bson.M {
	return bson.M{"userId": userID, "date": date}
}

// Get loads the whole day document, plan included.
func (r *mongoDailyRepository) Get(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyDocument, error) {
	var doc domain.DailyDocument
	err := r.collection.FindOne(ctx, dayFilter(userID, date)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// SavePlan replaces the plan and its meal summaries, creating the day if needed.
// Water is only initialised on insert so re-planning keeps what was already drunk.
func (r *mongoDailyRepository) SavePlan(ctx context.Context, userID primitive.ObjectID, date string, plan *domain.MealPlan, meals []domain.MealSummary) error {
	update := bson.M{
		"$set": bson.M{
			"planoCompleto": plan,
			"meals":         meals,
			"updatedAt":     time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"agua": 0},
	}
	_, err := r.collection.UpdateOne(ctx, dayFilter(userID, date), update, options.Update().SetUpsert(true))
	return err
}

// SetMealCompleted writes the flag on the matching summary. The positional
// operator needs "meals.id" in the filter to know which element to update.
func (r *mongoDailyRepository) SetMealCompleted(ctx context.Context, userID primitive.ObjectID, date, mealID string, completed bool) error {
	filter := dayFilter(userID, date)
	filter["meals.id"] = mealID
	update := bson.M{"$set": bson.M{
		"meals.$.completed": completed,
		"updatedAt":         time.Now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ToggleMealCompleted flips a meal's completed flag and returns the new value.
func (r *mongoDailyRepository) ToggleMealCompleted(ctx context.Context, userID primitive.ObjectID, date, mealID string) (bool, error) {
	filter := dayFilter(userID, date)
	filter["meals.id"] = mealID

	// Aggregation pipeline update so the flip reads and writes in one step.
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"meals": bson.M{"$map": bson.M{
				"input": "$meals",
				"as":    "m",
				"in": bson.M{"$cond": bson.A{
					bson.M{"$eq": bson.A{"$$m.id", mealID}},
					bson.M{"$mergeObjects": bson.A{"$$m", bson.M{"completed": bson.M{"$not": bson.A{"$$m.completed"}}}}},
					"$$m",
				}},
			}},
			"updatedAt": time.Now().UTC(),
		}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc domain.DailyDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, pipeline, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, repository.ErrNotFound
		}
		return false, err
	}
	// Read the flipped value back from the post-image
	for _, m := range doc.Meals {
		if m.ID == mealID {
			return m.Completed, nil
		}
	}
	return false, repository.ErrNotFound
}

// AddWater adds delta (may be negative) to the day's water and returns the
// totals before and after. The stored value never drops below zero.
func (r *mongoDailyRepository) AddWater(ctx context.Context, userID primitive.ObjectID, date string, delta float64) (float64, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"agua":      bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$agua", 0}}, delta}}}},
			"meals":     bson.M{"$ifNull": bson.A{"$meals", bson.A{}}},
			"updatedAt": time.Now().UTC(),
		}}},
	}

	// Return the pre-image: "before" comes from the server, "after" is derived
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"agua": 1})

	var prev struct {
		Water float64 `bson:"agua"`
	}
	err := r.collection.FindOneAndUpdate(ctx, dayFilter(userID, date), pipeline, opts).Decode(&prev)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, 0, err
	}
	// ErrNoDocuments here means the upsert created the day.
	return prev.Water, clampWater(prev.Water + delta), nil
}

// clampWater mirrors the $max in the update pipeline.
func clampWater(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// EnsureDailyIndexes makes (userId, date) unique so upserts cannot fork a day.
func EnsureDailyIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
