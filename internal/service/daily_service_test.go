package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutriai/nutrition-app/internal/config"
	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/mealplan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var testGoals = config.GoalsConfig{Calories: 2000, Fat: 70, Carbs: 300, Protein: 100, WaterML: 2500}

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func samplePlan() *domain.MealPlan {
	return &domain.MealPlan{Meals: []domain.Meal{
		{ID: "cafeDaManha", Name: "Panqueca de aveia", Category: "Café da manhã", Kcal: 350, Protein: 20, Carbs: 40, Fat: 10,
			Ingredients: []domain.Ingredient{{Text: "1 ovo"}}, PrepTime: "10 minutos", PrepSteps: []string{"Misture", "Asse"}},
		{ID: "almoco", Name: "Frango com arroz", Category: "Almoço", Kcal: 650, Protein: 50, Carbs: 70, Fat: 15,
			Ingredients: []domain.Ingredient{{Text: "150 g de frango"}}, PrepTime: "30 minutos", PrepSteps: []string{"Grelhe"}},
		{ID: "jantar", Name: "Omelete", Category: "Jantar", Kcal: 400, Protein: 30, Carbs: 10, Fat: 25,
			Ingredients: []domain.Ingredient{{Text: "3 ovos"}}, PrepTime: "15 minutos", PrepSteps: []string{"Bata", "Cozinhe"}},
	}}
}

func newDaily(gen PlanGenerator) (DailyService, *fakeDailyRepo) {
	repo := newFakeDailyRepo()
	svc := NewDailyService(repo, gen, testGoals, func() time.Time { return fixedNow }, zap.NewNop().Sugar())
	return svc, repo
}

func TestResolveDate(t *testing.T) {
	svc, _ := newDaily(nil)

	d, err := svc.ResolveDate("today")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", d)

	d, err = svc.ResolveDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", d)

	for _, bad := range []string{"", "10/03/2025", "2025-13-01", "2025-3-1"} {
		_, err := svc.ResolveDate(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestSavePlanProjectsSummariesAndKeepsWater(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()

	_, err := svc.AddWater(ctx, uid, "2025-03-10", 500)
	require.NoError(t, err)

	plan := samplePlan()
	doc, err := svc.SavePlan(ctx, uid, "2025-03-10", plan)
	require.NoError(t, err)

	assert.Equal(t, 500.0, doc.Water)
	assert.Equal(t, plan, doc.FullPlan)
	require.Len(t, doc.Meals, len(plan.Meals))
	for i, s := range doc.Meals {
		m := plan.Meals[i]
		assert.Equal(t, m.ID, s.ID)
		assert.Equal(t, m.Name, s.Title)
		assert.Equal(t, m.Kcal, s.Calories)
		assert.Equal(t, m.Fat, s.Fat)
		assert.Equal(t, m.Carbs, s.Carbs)
		assert.Equal(t, m.Protein, s.Protein)
		assert.Equal(t, domain.DefaultMealIcon, s.IconName)
		assert.False(t, s.Completed)
	}

	_, err = svc.SavePlan(ctx, uid, "2025-03-10", &domain.MealPlan{})
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestSavePlanResetsCompletion(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()

	_, err := svc.SavePlan(ctx, uid, "2025-03-10", samplePlan())
	require.NoError(t, err)
	require.NoError(t, svc.CompleteMeal(ctx, uid, "2025-03-10", "almoco"))

	doc, err := svc.SavePlan(ctx, uid, "2025-03-10", samplePlan())
	require.NoError(t, err)
	for _, m := range doc.Meals {
		assert.False(t, m.Completed)
	}
}

func TestGenerateForDay(t *testing.T) {
	gen := &fakeGenerator{plan: samplePlan()}
	svc, _ := newDaily(gen)
	ctx := context.Background()
	uid := primitive.NewObjectID()

	doc, err := svc.GenerateForDay(ctx, uid, "2025-03-10", domain.UserAttributes{Name: "Ana"})
	require.NoError(t, err)
	assert.Len(t, doc.Meals, 3)
	assert.Equal(t, 1, gen.calls)

	failing := &fakeGenerator{err: &mealplan.GenerationError{Kind: mealplan.KindParse, Err: errors.New("bad json")}}
	svc, repo := newDaily(failing)
	_, err = svc.GenerateForDay(ctx, uid, "2025-03-10", domain.UserAttributes{})
	assert.ErrorIs(t, err, mealplan.ErrPlanCreation)
	assert.Empty(t, repo.days, "nothing is written when generation fails")
}

func TestSavePlanRejectsBrokenInvariants(t *testing.T) {
	ctx := context.Background()
	uid := primitive.NewObjectID()

	cases := map[string]func(p *domain.MealPlan){
		"duplicate ids":   func(p *domain.MealPlan) { p.Meals[1].ID = p.Meals[0].ID },
		"id with space":   func(p *domain.MealPlan) { p.Meals[2].ID = "cafe da manha" },
		"empty id":        func(p *domain.MealPlan) { p.Meals[0].ID = "" },
		"negative kcal":   func(p *domain.MealPlan) { p.Meals[0].Kcal = -50 },
		"negative fat":    func(p *domain.MealPlan) { p.Meals[2].Fat = -1 },
		"nil ingredients": func(p *domain.MealPlan) { p.Meals[1].Ingredients = nil },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc, repo := newDaily(nil)
			plan := samplePlan()
			mutate(plan)

			doc, err := svc.SavePlan(ctx, uid, "2025-03-10", plan)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrInvalidPlan)
			assert.Empty(t, repo.days, "nothing is written for an invalid plan")
		})
	}
}

func TestGenerateForDayRejectsInvalidGeneratedPlan(t *testing.T) {
	plan := samplePlan()
	plan.Meals[1].ID = plan.Meals[0].ID
	svc, repo := newDaily(&fakeGenerator{plan: plan})

	_, err := svc.GenerateForDay(context.Background(), primitive.NewObjectID(), "2025-03-10", domain.UserAttributes{Name: "Ana"})
	assert.ErrorIs(t, err, mealplan.ErrPlanCreation)
	assert.Equal(t, mealplan.KindShape, mealplan.KindOf(err))
	assert.Empty(t, repo.days)
}

func TestGetDayMissingIsEmpty(t *testing.T) {
	svc, _ := newDaily(nil)
	doc, err := svc.GetDay(context.Background(), primitive.NewObjectID(), "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", doc.Date)
	assert.Zero(t, doc.Water)
	assert.NotNil(t, doc.Meals)
	assert.Empty(t, doc.Meals)
	assert.Nil(t, doc.FullPlan)
}

func TestToggleAndCompleteMeal(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()
	_, err := svc.SavePlan(ctx, uid, "2025-03-10", samplePlan())
	require.NoError(t, err)

	done, err := svc.ToggleMeal(ctx, uid, "2025-03-10", "almoco")
	require.NoError(t, err)
	assert.True(t, done)
	done, err = svc.ToggleMeal(ctx, uid, "2025-03-10", "almoco")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, svc.CompleteMeal(ctx, uid, "2025-03-10", "jantar"))
	require.NoError(t, svc.CompleteMeal(ctx, uid, "2025-03-10", "jantar"), "completing twice is idempotent")

	_, err = svc.ToggleMeal(ctx, uid, "2025-03-10", "ceia")
	assert.ErrorIs(t, err, ErrMealNotFound)
	assert.ErrorIs(t, svc.CompleteMeal(ctx, uid, "2025-03-09", "almoco"), ErrMealNotFound)
}

func TestFutureDatesAreReadOnly(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()
	tomorrow := "2025-03-11"

	_, err := svc.SavePlan(ctx, uid, tomorrow, samplePlan())
	require.NoError(t, err, "plans may be prepared ahead")

	_, err = svc.ToggleMeal(ctx, uid, tomorrow, "almoco")
	assert.ErrorIs(t, err, ErrFutureDate)
	assert.ErrorIs(t, svc.CompleteMeal(ctx, uid, tomorrow, "almoco"), ErrFutureDate)
	_, err = svc.AddWater(ctx, uid, tomorrow, 250)
	assert.ErrorIs(t, err, ErrFutureDate)
}

func TestMealDetail(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()

	_, err := svc.MealDetail(ctx, uid, "2025-03-10", "almoco")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = svc.AddWater(ctx, uid, "2025-03-10", 200)
	require.NoError(t, err)
	_, err = svc.MealDetail(ctx, uid, "2025-03-10", "almoco")
	assert.ErrorIs(t, err, ErrPlanNotFound, "a day with water only has no plan")

	_, err = svc.SavePlan(ctx, uid, "2025-03-10", samplePlan())
	require.NoError(t, err)
	meal, err := svc.MealDetail(ctx, uid, "2025-03-10", "almoco")
	require.NoError(t, err)
	assert.Equal(t, "Frango com arroz", meal.Name)
	assert.Equal(t, []string{"Grelhe"}, meal.PrepSteps)

	_, err = svc.MealDetail(ctx, uid, "2025-03-10", "ceia")
	assert.ErrorIs(t, err, ErrMealNotFound)
}

func TestAddWaterClampsAndReportsGoalCrossing(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()
	day := "2025-03-10"

	res, err := svc.AddWater(ctx, uid, day, 2000)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, res.Total)
	assert.Equal(t, 2500.0, res.Goal)
	assert.False(t, res.GoalReached)

	res, err = svc.AddWater(ctx, uid, day, 500)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, res.Total)
	assert.True(t, res.GoalReached)

	res, err = svc.AddWater(ctx, uid, day, 250)
	require.NoError(t, err)
	assert.False(t, res.GoalReached, "only the crossing call reports the goal")

	res, err = svc.AddWater(ctx, uid, day, -5000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Total)

	_, err = svc.AddWater(ctx, uid, day, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestProgressCountsCompletedMealsOnly(t *testing.T) {
	svc, _ := newDaily(nil)
	ctx := context.Background()
	uid := primitive.NewObjectID()
	day := "2025-03-10"

	_, err := svc.SavePlan(ctx, uid, day, samplePlan())
	require.NoError(t, err)
	require.NoError(t, svc.CompleteMeal(ctx, uid, day, "cafeDaManha"))
	require.NoError(t, svc.CompleteMeal(ctx, uid, day, "almoco"))
	_, err = svc.AddWater(ctx, uid, day, 3000)
	require.NoError(t, err)

	p, err := svc.Progress(ctx, uid, day)
	require.NoError(t, err)
	assert.Equal(t, domain.Macros{Calories: 1000, Fat: 25, Carbs: 110, Protein: 70}, p.Consumed)
	assert.Equal(t, 50.0, p.Percent.Calories)
	assert.InDelta(t, 35.714, p.Percent.Fat, 0.01)
	assert.InDelta(t, 36.667, p.Percent.Carbs, 0.01)
	assert.Equal(t, 70.0, p.Percent.Protein)
	assert.Equal(t, 3000.0, p.Water)
	assert.Equal(t, 100.0, p.WaterPercent, "capped at 100")
	assert.Equal(t, 2, p.MealsCompleted)
	assert.Equal(t, 3, p.MealsTotal)
}

func TestPercentOf(t *testing.T) {
	assert.Equal(t, 0.0, percentOf(50, 0))
	assert.Equal(t, 0.0, percentOf(-10, 100))
	assert.Equal(t, 25.0, percentOf(25, 100))
	assert.Equal(t, 100.0, percentOf(250, 100))
}
