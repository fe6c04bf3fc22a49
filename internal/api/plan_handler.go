package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/mealplan"
	"nutriai/nutrition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler exposes the stateless generation contract.
type PlanHandler struct {
	generator service.PlanGenerator
	timeout   time.Duration
}

// NewPlanHandler wires generation. A zero timeout leaves the deadline to the
// client connection.
func NewPlanHandler(generator service.PlanGenerator, timeout time.Duration) *PlanHandler {
	return &PlanHandler{generator: generator, timeout: timeout}
}

// Create godoc
// @Summary Generate a one-day meal plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param attributes body domain.UserAttributes true "User attributes"
// @Success 200 {object} gin.H "{data: MealPlan}"
// @Failure 500 {object} gin.H "{error: failed to create meal plan}"
// @Router /create [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var attrs domain.UserAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctx, cancel := withOptionalTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	plan, err := h.generator.Generate(ctx, attrs)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, mealplan.ErrPlanCreation.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plan})
}

func withOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
