package repository

import (
	"context"

	"nutriai/nutrition-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError distinguishes storage-layer failures from driver errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository stores accounts and profiles.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// UpdateProfile merges the non-nil fields of upd into the stored user.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd domain.ProfileUpdate) (*domain.User, error)
	SetAvatarKey(ctx context.Context, id primitive.ObjectID, key string) error
}

// DailyRepository stores one document per (user, date). All writes merge.
type DailyRepository interface {
	// Get returns ErrNotFound when the day has never been written.
	Get(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyDocument, error)
	// SavePlan upserts planoCompleto and meals, leaving agua untouched.
	SavePlan(ctx context.Context, userID primitive.ObjectID, date string, plan *domain.MealPlan, meals []domain.MealSummary) error
	// SetMealCompleted updates one summary. ErrNotFound if the day or meal is missing.
	SetMealCompleted(ctx context.Context, userID primitive.ObjectID, date, mealID string, completed bool) error
	// ToggleMealCompleted flips one summary atomically and returns its new state.
	ToggleMealCompleted(ctx context.Context, userID primitive.ObjectID, date, mealID string) (bool, error)
	// AddWater applies delta to agua (upserting the day), clamps the result
	// at zero and returns the totals before and after.
	AddWater(ctx context.Context, userID primitive.ObjectID, date string, delta float64) (before, after float64, err error)
}

// PantryRepository stores scanned products, one item per (user, code).
type PantryRepository interface {
	// AddOrIncrement creates the item or adds qty to its quantity.
	AddOrIncrement(ctx context.Context, item *domain.PantryItem) (*domain.PantryItem, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.PantryItem, error)
	SetQuantity(ctx context.Context, userID primitive.ObjectID, code string, qty int) (*domain.PantryItem, error)
	Delete(ctx context.Context, userID primitive.ObjectID, code string) error
}

// PostRepository stores community posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (primitive.ObjectID, error)
	// ListByAuthor returns the author's posts, newest first.
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]domain.Post, error)
}
