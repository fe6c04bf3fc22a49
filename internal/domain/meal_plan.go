package domain

// UserAttributes is what the client collects across the onboarding form and
// forwards for plan generation. Values are kept in their display form because
// they are interpolated verbatim into the model prompt. The numeric ones
// accept both 29 and "29".
type UserAttributes struct {
	Name      string     `json:"name" binding:"required"`
	Age       FlexString `json:"age" binding:"required"`
	Gender    string     `json:"gender" binding:"required"` // masculino | feminino
	Height    FlexString `json:"height" binding:"required"` // cm
	Weight    FlexString `json:"weight" binding:"required"` // kg
	Level     string     `json:"level" binding:"required"`
	Objective string     `json:"objective" binding:"required"`
}

// Gender values offered by the onboarding form.
const (
	GenderMale   = "masculino"
	GenderFemale = "feminino"
)

// Activity levels offered by the onboarding form.
const (
	LevelSedentary        = "Sedentario"
	LevelLightlyActive    = "Levemente ativo (exercícios 1 a 3 vezes na semana)"
	LevelModeratelyActive = "Moderadamente ativo (exercícios 3 a 5 vezes na semana)"
	LevelHighlyActive     = "Altamente ativo (exercícios 5 a 7 vezes na semana)"
)

// Objectives offered by the onboarding form.
const (
	ObjectiveLoseWeight        = "emagrecer"
	ObjectiveHypertrophy       = "hipertrofia"
	ObjectiveHypertrophyDefine = "hipertrofia + definição"
	ObjectiveDefinition        = "definição"
)

// MealPlan is the generation artifact. It is stored verbatim as
// "planoCompleto" in the daily document and never mutated afterwards.
type MealPlan struct {
	Meals       []Meal   `bson:"refeicoes" json:"refeicoes"`
	Supplements []string `bson:"suplementos,omitempty" json:"suplementos,omitempty"`
}

// Meal keys are unaccented and must match exactly; the mobile client binds
// them by direct field access.
type Meal struct {
	ID          string       `bson:"id" json:"id"`
	Name        string       `bson:"nome" json:"nome"`
	Category    string       `bson:"categoria" json:"categoria"`
	Kcal        float64      `bson:"kcal" json:"kcal"`
	Protein     float64      `bson:"proteinas" json:"proteinas"`
	Carbs       float64      `bson:"carboidratos" json:"carboidratos"`
	Fat         float64      `bson:"gorduras" json:"gorduras"`
	Ingredients []Ingredient `bson:"ingredientes" json:"ingredientes"`
	PrepTime    string       `bson:"tempoPreparo" json:"tempoPreparo"`
	PrepSteps   []string     `bson:"modoPreparo" json:"modoPreparo"`
}

type Ingredient struct {
	Text string `bson:"texto" json:"texto"`
}

// FindMeal returns the meal with the given id, if present.
func (p *MealPlan) FindMeal(id string) (*Meal, bool) {
	if p == nil {
		return nil, false
	}
	for i := range p.Meals {
		if p.Meals[i].ID == id {
			return &p.Meals[i], true
		}
	}
	return nil, false
}
