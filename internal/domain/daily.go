package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DateLayout is the key format of daily documents (ISO date, UTC).
const DateLayout = "2006-01-02"

// DefaultMealIcon is the icon reference every summary starts with.
const DefaultMealIcon = "fastfood"

// MealSummary is the live, mutable projection of a Meal used for progress
// tracking. Only Completed changes after it is created.
type MealSummary struct {
	ID        string  `bson:"id" json:"id"`
	Title     string  `bson:"title" json:"title"`
	Calories  float64 `bson:"calories" json:"calories"`
	Fat       float64 `bson:"lipidios" json:"lipidios"`
	Carbs     float64 `bson:"carboidratos" json:"carboidratos"`
	Protein   float64 `bson:"proteinas" json:"proteinas"`
	IconName  string  `bson:"iconName" json:"iconName"`
	Completed bool    `bson:"completed" json:"completed"`
}

// SummarizeMeals maps a plan onto fresh summaries with Completed=false.
func SummarizeMeals(plan *MealPlan) []MealSummary {
	if plan == nil {
		return []MealSummary{}
	}
	out := make([]MealSummary, len(plan.Meals))
	for i, m := range plan.Meals {
		out[i] = MealSummary{
			ID:        m.ID,
			Title:     m.Name,
			Calories:  m.Kcal,
			Fat:       m.Fat,
			Carbs:     m.Carbs,
			Protein:   m.Protein,
			IconName:  DefaultMealIcon,
			Completed: false,
		}
	}
	return out
}

// DailyDocument is the per-user, per-day record. Writes are merges: a field
// absent from a write keeps its stored value.
type DailyDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	UserID    primitive.ObjectID `bson:"userId" json:"-"`
	Date      string             `bson:"date" json:"date"`
	Water     float64            `bson:"agua" json:"agua"`
	Meals     []MealSummary      `bson:"meals" json:"meals"`
	FullPlan  *MealPlan          `bson:"planoCompleto,omitempty" json:"planoCompleto,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Macro totals for a day.
type Macros struct {
	Calories float64 `json:"calories"`
	Fat      float64 `json:"lipidios"`
	Carbs    float64 `json:"carboidratos"`
	Protein  float64 `json:"proteinas"`
}

// DailyProgress reports consumed macros (completed meals only) and water
// against the configured goals. Percentages are capped at 100.
type DailyProgress struct {
	Date           string  `json:"date"`
	Consumed       Macros  `json:"consumed"`
	Goals          Macros  `json:"goals"`
	Percent        Macros  `json:"percent"`
	Water          float64 `json:"agua"`
	WaterGoal      float64 `json:"aguaMeta"`
	WaterPercent   float64 `json:"aguaPercent"`
	MealsCompleted int     `json:"mealsCompleted"`
	MealsTotal     int     `json:"mealsTotal"`
}
