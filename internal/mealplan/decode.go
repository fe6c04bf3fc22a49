package mealplan

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"nutriai/nutrition-app/internal/domain"

	"github.com/go-playground/validator/v10"
)

// errEmptyPlan is a shape failure even without strict validation: a plan
// with no meals is useless to the client.
var errEmptyPlan = errors.New(`"refeicoes" is missing or empty`)

// planValidator serves plans that arrive from clients rather than the model.
// validator.Validate caches struct metadata and is safe for concurrent use.
var planValidator = validator.New()

// wirePlan mirrors domain.MealPlan with pointer fields so that absent keys
// can be told apart from zero values.
type wirePlan struct {
	Meals       []wireMeal `json:"refeicoes" validate:"required,min=1,dive"`
	Supplements []string   `json:"suplementos"`
}

type wireMeal struct {
	ID          *string          `json:"id" validate:"required,min=1"`
	Name        *string          `json:"nome" validate:"required"`
	Category    *string          `json:"categoria" validate:"required"`
	Kcal        *float64         `json:"kcal" validate:"required,gte=0"`
	Protein     *float64         `json:"proteinas" validate:"required,gte=0"`
	Carbs       *float64         `json:"carboidratos" validate:"required,gte=0"`
	Fat         *float64         `json:"gorduras" validate:"required,gte=0"`
	Ingredients []wireIngredient `json:"ingredientes" validate:"required,dive"`
	PrepTime    *string          `json:"tempoPreparo" validate:"required"`
	PrepSteps   []string         `json:"modoPreparo" validate:"required"`
}

type wireIngredient struct {
	Text *string `json:"texto" validate:"required"`
}

// decodePlan parses the candidate payload. Syntax and type mismatches are
// parse failures; missing or invalid content is a shape failure.
func decodePlan(payload string, v *validator.Validate, strict bool) (*domain.MealPlan, error) {
	var wp wirePlan
	if err := json.Unmarshal([]byte(payload), &wp); err != nil {
		return nil, fail(KindParse, fmt.Errorf("decode meal plan: %w", err))
	}
	if len(wp.Meals) == 0 {
		return nil, fail(KindShape, errEmptyPlan)
	}
	if strict {
		if err := validatePlan(&wp, v); err != nil {
			return nil, fail(KindShape, err)
		}
	}
	return wp.toDomain(), nil
}

// DecodePlan parses a plan supplied by a client (for example one previously
// returned by /create) and applies the strict checks unconditionally: every
// key present, macros >= 0, ids unique and without whitespace.
func DecodePlan(data []byte) (*domain.MealPlan, error) {
	plan, err := decodePlan(string(data), planValidator, true)
	var ge *GenerationError
	if errors.As(err, &ge) {
		return nil, ge.Err
	}
	return plan, err
}

// ValidatePlan applies the strict content rules to an already decoded plan.
// Key presence can no longer be checked at this point; zero values pass.
func ValidatePlan(plan *domain.MealPlan) error {
	if plan == nil || len(plan.Meals) == 0 {
		return errEmptyPlan
	}
	return validatePlan(fromDomain(plan), planValidator)
}

func validatePlan(wp *wirePlan, v *validator.Validate) error {
	if err := v.Struct(wp); err != nil {
		return fmt.Errorf("meal plan schema: %w", err)
	}
	seen := make(map[string]struct{}, len(wp.Meals))
	for i, m := range wp.Meals {
		id := *m.ID
		if strings.ContainsAny(id, " \t\r\n") {
			return fmt.Errorf("meal %d: id %q contains whitespace", i, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("meal %d: duplicate id %q", i, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (wp *wirePlan) toDomain() *domain.MealPlan {
	plan := &domain.MealPlan{
		Meals:       make([]domain.Meal, len(wp.Meals)),
		Supplements: wp.Supplements,
	}
	for i, m := range wp.Meals {
		ingredients := make([]domain.Ingredient, len(m.Ingredients))
		for j, in := range m.Ingredients {
			ingredients[j] = domain.Ingredient{Text: str(in.Text)}
		}
		steps := m.PrepSteps
		if steps == nil {
			steps = []string{}
		}
		plan.Meals[i] = domain.Meal{
			ID:          str(m.ID),
			Name:        str(m.Name),
			Category:    str(m.Category),
			Kcal:        num(m.Kcal),
			Protein:     num(m.Protein),
			Carbs:       num(m.Carbs),
			Fat:         num(m.Fat),
			Ingredients: ingredients,
			PrepTime:    str(m.PrepTime),
			PrepSteps:   steps,
		}
	}
	return plan
}

func fromDomain(p *domain.MealPlan) *wirePlan {
	wp := &wirePlan{Meals: make([]wireMeal, len(p.Meals)), Supplements: p.Supplements}
	for i := range p.Meals {
		m := &p.Meals[i]
		ingredients := make([]wireIngredient, len(m.Ingredients))
		for j := range m.Ingredients {
			ingredients[j] = wireIngredient{Text: &m.Ingredients[j].Text}
		}
		if m.Ingredients == nil {
			ingredients = nil
		}
		wp.Meals[i] = wireMeal{
			ID:          &m.ID,
			Name:        &m.Name,
			Category:    &m.Category,
			Kcal:        &m.Kcal,
			Protein:     &m.Protein,
			Carbs:       &m.Carbs,
			Fat:         &m.Fat,
			Ingredients: ingredients,
			PrepTime:    &m.PrepTime,
			PrepSteps:   m.PrepSteps,
		}
	}
	return wp
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
