package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/mealplan"
	"nutriai/nutrition-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayHandler serves the per-day document: plan, meal completion, water, progress.
type DayHandler struct {
	dailyService service.DailyService
	timeout      time.Duration
}

func NewDayHandler(dailyService service.DailyService, generationTimeout time.Duration) *DayHandler {
	return &DayHandler{dailyService: dailyService, timeout: generationTimeout}
}

type WaterRequest struct {
	ML float64 `json:"ml" binding:"required"`
}

type ToggleResponse struct {
	MealID    string `json:"mealId"`
	Completed bool   `json:"completed"`
}

// dayParams resolves the authenticated user and the :date path segment.
func (h *DayHandler) dayParams(c *gin.Context) (primitive.ObjectID, string, bool) {
	uid, ok := mustUserID(c)
	if !ok {
		return uid, "", false
	}
	date, err := h.dailyService.ResolveDate(c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return uid, "", false
	}
	return uid, date, true
}

// GeneratePlan godoc
// @Summary Generate a plan and store it for the day
// @Tags Days
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Param attributes body domain.UserAttributes true "User attributes"
// @Success 201 {object} domain.DailyDocument
// @Failure 500 {object} gin.H "{error: failed to create meal plan}"
// @Router /days/{date}/plan [post]
func (h *DayHandler) GeneratePlan(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	var attrs domain.UserAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctx, cancel := withOptionalTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	doc, err := h.dailyService.GenerateForDay(ctx, uid, date, attrs)
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// SavePlan godoc
// @Summary Store a plan the client already obtained from /create
// @Description The body is checked as strictly as a generated plan. Water logged for the day is kept.
// @Tags Days
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Param plan body domain.MealPlan true "Meal plan"
// @Success 200 {object} domain.DailyDocument
// @Failure 400 {object} gin.H "Malformed or invalid plan"
// @Router /days/{date}/plan [put]
func (h *DayHandler) SavePlan(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}
	// Same checks as a freshly generated plan, including key presence.
	plan, err := mealplan.DecodePlan(body)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	doc, err := h.dailyService.SavePlan(c.Request.Context(), uid, date, plan)
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// GetDay godoc
// @Summary Get the day document
// @Tags Days
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Success 200 {object} domain.DailyDocument
// @Router /days/{date} [get]
func (h *DayHandler) GetDay(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	doc, err := h.dailyService.GetDay(c.Request.Context(), uid, date)
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Progress godoc
// @Summary Consumed macros and water for the day
// @Tags Days
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Success 200 {object} domain.DailyProgress
// @Router /days/{date}/progress [get]
func (h *DayHandler) Progress(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	p, err := h.dailyService.Progress(c.Request.Context(), uid, date)
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// MealDetail godoc
// @Summary Full meal from the stored plan
// @Tags Days
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Param mealId path string true "Meal id"
// @Success 200 {object} domain.Meal
// @Failure 404 {object} gin.H "No plan or no such meal"
// @Router /days/{date}/meals/{mealId} [get]
func (h *DayHandler) MealDetail(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	meal, err := h.dailyService.MealDetail(c.Request.Context(), uid, date, c.Param("mealId"))
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

// ToggleMeal godoc
// @Summary Flip a meal's completed flag
// @Tags Days
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Param mealId path string true "Meal id"
// @Success 200 {object} ToggleResponse
// @Failure 403 {object} gin.H "Future date"
// @Failure 404 {object} gin.H "No such meal"
// @Router /days/{date}/meals/{mealId}/toggle [post]
func (h *DayHandler) ToggleMeal(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	mealID := c.Param("mealId")
	completed, err := h.dailyService.ToggleMeal(c.Request.Context(), uid, date, mealID)
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{MealID: mealID, Completed: completed})
}

// CompleteMeal godoc
// @Summary Mark a meal as completed (idempotent)
// @Tags Days
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Param mealId path string true "Meal id"
// @Success 200 {object} ToggleResponse
// @Failure 403 {object} gin.H "Future date"
// @Router /days/{date}/meals/{mealId}/complete [post]
func (h *DayHandler) CompleteMeal(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	mealID := c.Param("mealId")
	if err := h.dailyService.CompleteMeal(c.Request.Context(), uid, date, mealID); err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, ToggleResponse{MealID: mealID, Completed: true})
}

// AddWater godoc
// @Summary Add (or remove, with a negative amount) water in ml
// @Description The total never drops below zero. goalReached is true only on the call that crosses the goal.
// @Tags Days
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param date path string true "YYYY-MM-DD or today"
// @Param water body WaterRequest true "Amount in ml"
// @Success 200 {object} service.WaterResult
// @Failure 403 {object} gin.H "Future date"
// @Router /days/{date}/water [post]
func (h *DayHandler) AddWater(c *gin.Context) {
	uid, date, ok := h.dayParams(c)
	if !ok {
		return
	}
	var req WaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	res, err := h.dailyService.AddWater(c.Request.Context(), uid, date, req.ML)
	if err != nil {
		writeDayError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeDayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, mealplan.ErrPlanCreation):
		abortWithError(c, http.StatusInternalServerError, mealplan.ErrPlanCreation.Error())
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrMealNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFutureDate):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrEmptyPlan),
		errors.Is(err, service.ErrInvalidPlan):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
