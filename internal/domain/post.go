package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a community feed entry.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Text       string             `bson:"text" json:"text"`
	AuthorID   primitive.ObjectID `bson:"authorId" json:"authorId"`
	AuthorName string             `bson:"authorName" json:"authorName"` // copied at write time
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
