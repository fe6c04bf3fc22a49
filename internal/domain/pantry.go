package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PantryItem is a scanned product in a user's pantry, one per barcode.
type PantryItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	Code      string             `bson:"code" json:"code"`
	Name      string             `bson:"nome" json:"nome"`
	Image     string             `bson:"imagem" json:"imagem"`
	Quantity  int                `bson:"quantidade" json:"quantidade"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Product is a packaged food as returned by the food database.
// Nutrient values are per 100 g.
type Product struct {
	Code       string    `json:"code"`
	Name       string    `json:"nome"`
	Quantity   string    `json:"quantidade,omitempty"`
	Image      string    `json:"imagem,omitempty"`
	Nutrients  Nutrients `json:"nutrientes"`
	NutriScore string    `json:"nutriscore"`
	Expiration string    `json:"validade"`
}

type Nutrients struct {
	Kcal         float64 `json:"kcal"`
	Protein      float64 `json:"proteinas"`
	Carbs        float64 `json:"carboidratos"`
	Fat          float64 `json:"gorduras"`
	SaturatedFat float64 `json:"gordurasSaturadas"`
	TransFat     float64 `json:"gordurasTrans"`
	Fiber        float64 `json:"fibras"`
	Sodium       float64 `json:"sodio"`
	Sugars       float64 `json:"acucares"`
	AddedSugars  float64 `json:"acucaresAdicionados"`
}
