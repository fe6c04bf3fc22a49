package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"nutriai/nutrition-app/internal/config"
	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/mealplan"
	"nutriai/nutrition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD or \"today\"")
	ErrFutureDate    = errors.New("cannot modify a future date")
	ErrEmptyPlan     = errors.New("meal plan has no meals")
	ErrInvalidPlan   = errors.New("invalid meal plan")
	ErrPlanNotFound  = errors.New("no meal plan for this day")
	ErrMealNotFound  = errors.New("meal not found")
	ErrInvalidAmount = errors.New("water amount must be non-zero")
)

// DateToday is the path alias for the current UTC date.
const DateToday = "today"

// PlanGenerator produces a meal plan from user attributes.
type PlanGenerator interface {
	Generate(ctx context.Context, attrs domain.UserAttributes) (*domain.MealPlan, error)
}

// WaterResult reports the day's water total after an intake change.
type WaterResult struct {
	Total       float64 `json:"agua"`
	Goal        float64 `json:"aguaMeta"`
	GoalReached bool    `json:"goalReached"`
}

type DailyService interface {
	// ResolveDate normalises a path date ("today" or YYYY-MM-DD).
	ResolveDate(raw string) (string, error)
	SavePlan(ctx context.Context, userID primitive.ObjectID, date string, plan *domain.MealPlan) (*domain.DailyDocument, error)
	GenerateForDay(ctx context.Context, userID primitive.ObjectID, date string, attrs domain.UserAttributes) (*domain.DailyDocument, error)
	GetDay(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyDocument, error)
	ToggleMeal(ctx context.Context, userID primitive.ObjectID, date, mealID string) (bool, error)
	CompleteMeal(ctx context.Context, userID primitive.ObjectID, date, mealID string) error
	MealDetail(ctx context.Context, userID primitive.ObjectID, date, mealID string) (*domain.Meal, error)
	AddWater(ctx context.Context, userID primitive.ObjectID, date string, ml float64) (*WaterResult, error)
	Progress(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyProgress, error)
}

type dailyService struct {
	dailyRepo repository.DailyRepository
	generator PlanGenerator
	goals     config.GoalsConfig
	now       func() time.Time
	log       *zap.SugaredLogger
}

// NewDailyService wires the per-day tracking use cases. now may be nil.
func NewDailyService(dailyRepo repository.DailyRepository, generator PlanGenerator, goals config.GoalsConfig, now func() time.Time, log *zap.SugaredLogger) DailyService {
	if now == nil {
		now = time.Now
	}
	return &dailyService{
		dailyRepo: dailyRepo,
		generator: generator,
		goals:     goals,
		now:       now,
		log:       log,
	}
}

func (s *dailyService) today() string {
	return s.now().UTC().Format(domain.DateLayout)
}

func (s *dailyService) ResolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.EqualFold(raw, DateToday) {
		return s.today(), nil
	}
	t, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return "", ErrInvalidDate
	}
	return t.Format(domain.DateLayout), nil
}

// guardFuture rejects writes to days after today. ISO dates compare lexically.
func (s *dailyService) guardFuture(date string) error {
	if date > s.today() {
		return ErrFutureDate
	}
	return nil
}

// SavePlan stores a client-supplied plan verbatim and resets the day's meal
// summaries to a fresh projection of it. Water intake is preserved. Plans that
// break the meal invariants (unique ids without spaces, macros >= 0) are
// rejected with ErrInvalidPlan before anything is written.
func (s *dailyService) SavePlan(ctx context.Context, userID primitive.ObjectID, date string, plan *domain.MealPlan) (*domain.DailyDocument, error) {
	if plan == nil || len(plan.Meals) == 0 {
		return nil, ErrEmptyPlan
	}
	if err := mealplan.ValidatePlan(plan); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return s.storePlan(ctx, userID, date, plan)
}

// GenerateForDay generates a plan and stores it. A generated plan that fails
// the invariants (possible with strict validation off) is a generation
// failure, not a client error.
func (s *dailyService) GenerateForDay(ctx context.Context, userID primitive.ObjectID, date string, attrs domain.UserAttributes) (*domain.DailyDocument, error) {
	plan, err := s.generator.Generate(ctx, attrs)
	if err != nil {
		return nil, err
	}
	if err := mealplan.ValidatePlan(plan); err != nil {
		s.log.Errorw("generated plan rejected before save", "userId", userID.Hex(), "date", date, "error", err)
		return nil, &mealplan.GenerationError{Kind: mealplan.KindShape, Err: err}
	}
	return s.storePlan(ctx, userID, date, plan)
}

func (s *dailyService) storePlan(ctx context.Context, userID primitive.ObjectID, date string, plan *domain.MealPlan) (*domain.DailyDocument, error) {
	meals := domain.SummarizeMeals(plan)
	if err := s.dailyRepo.SavePlan(ctx, userID, date, plan, meals); err != nil {
		return nil, fmt.Errorf("save plan for %s: %w", date, err)
	}
	s.log.Infow("meal plan saved", "userId", userID.Hex(), "date", date, "meals", len(meals))
	return s.GetDay(ctx, userID, date)
}

// GetDay returns the stored document, or an empty day if none exists yet.
func (s *dailyService) GetDay(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyDocument, error) {
	doc, err := s.dailyRepo.Get(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.DailyDocument{UserID: userID, Date: date, Meals: []domain.MealSummary{}}, nil
		}
		return nil, err
	}
	if doc.Meals == nil {
		doc.Meals = []domain.MealSummary{}
	}
	return doc, nil
}

func (s *dailyService) ToggleMeal(ctx context.Context, userID primitive.ObjectID, date, mealID string) (bool, error) {
	if err := s.guardFuture(date); err != nil {
		return false, err
	}
	completed, err := s.dailyRepo.ToggleMealCompleted(ctx, userID, date, mealID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrMealNotFound
		}
		return false, err
	}
	return completed, nil
}

func (s *dailyService) CompleteMeal(ctx context.Context, userID primitive.ObjectID, date, mealID string) error {
	if err := s.guardFuture(date); err != nil {
		return err
	}
	err := s.dailyRepo.SetMealCompleted(ctx, userID, date, mealID, true)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMealNotFound
	}
	return err
}

// MealDetail resolves a meal from the stored full plan, not the summaries.
func (s *dailyService) MealDetail(ctx context.Context, userID primitive.ObjectID, date, mealID string) (*domain.Meal, error) {
	doc, err := s.dailyRepo.Get(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if doc.FullPlan == nil {
		return nil, ErrPlanNotFound
	}
	meal, ok := doc.FullPlan.FindMeal(mealID)
	if !ok {
		return nil, ErrMealNotFound
	}
	return meal, nil
}

// AddWater applies ml (negative to undo) and reports whether this change
// crossed the daily goal.
func (s *dailyService) AddWater(ctx context.Context, userID primitive.ObjectID, date string, ml float64) (*WaterResult, error) {
	if ml == 0 || math.IsNaN(ml) || math.IsInf(ml, 0) {
		return nil, ErrInvalidAmount
	}
	if err := s.guardFuture(date); err != nil {
		return nil, err
	}
	before, after, err := s.dailyRepo.AddWater(ctx, userID, date, ml)
	if err != nil {
		return nil, err
	}
	goal := s.goals.WaterML
	return &WaterResult{
		Total:       after,
		Goal:        goal,
		GoalReached: goal > 0 && before < goal && after >= goal,
	}, nil
}

// Progress sums the macros of completed meals against the configured goals.
func (s *dailyService) Progress(ctx context.Context, userID primitive.ObjectID, date string) (*domain.DailyProgress, error) {
	doc, err := s.GetDay(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	var consumed domain.Macros
	completed := 0
	for _, m := range doc.Meals {
		if !m.Completed {
			continue
		}
		completed++
		consumed.Calories += m.Calories
		consumed.Fat += m.Fat
		consumed.Carbs += m.Carbs
		consumed.Protein += m.Protein
	}

	goals := domain.Macros{
		Calories: s.goals.Calories,
		Fat:      s.goals.Fat,
		Carbs:    s.goals.Carbs,
		Protein:  s.goals.Protein,
	}
	return &domain.DailyProgress{
		Date:     date,
		Consumed: consumed,
		Goals:    goals,
		Percent:  domain.Macros{
			Calories: percentOf(consumed.Calories, goals.Calories),
			Fat:      percentOf(consumed.Fat, goals.Fat),
			Carbs:    percentOf(consumed.Carbs, goals.Carbs),
			Protein:  percentOf(consumed.Protein, goals.Protein),
		},
		Water:          doc.Water,
		WaterGoal:      s.goals.WaterML,
		WaterPercent:   percentOf(doc.Water, s.goals.WaterML),
		MealsCompleted: completed,
		MealsTotal:     len(doc.Meals),
	}, nil
}

// percentOf returns value/goal as a percentage in [0, 100].
func percentOf(value, goal float64) float64 {
	if goal <= 0 || value <= 0 {
		return 0
	}
	return math.Min(100, value/goal*100)
}
