package api

import (
	"errors"
	"fmt"
	"net/http"

	"nutriai/nutrition-app/internal/service"

	"github.com/gin-gonic/gin"
)

// PantryHandler serves pantry items and product lookups.
type PantryHandler struct {
	pantryService service.PantryService
}

func NewPantryHandler(pantryService service.PantryService) *PantryHandler {
	return &PantryHandler{pantryService: pantryService}
}

// --- DTOs ---

// ScanRequest is one barcode scan. Quantity defaults to 1.
type ScanRequest struct {
	Code     string `json:"code" binding:"required"`
	Quantity int    `json:"quantidade" binding:"omitempty,min=1"`
}

type QuantityRequest struct {
	Quantity int `json:"quantidade" binding:"required"`
}

// List godoc
// @Summary List pantry items sorted by name
// @Tags Pantry
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.PantryItem
// @Router /pantry [get]
func (h *PantryHandler) List(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	items, err := h.pantryService.List(c.Request.Context(), uid)
	if err != nil {
		writePantryError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Scan godoc
// @Summary Record a scanned barcode
// @Description Creates the item on first scan, otherwise increments its quantity.
// @Description Unknown products are stored under a placeholder name and image.
// @Tags Pantry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scan body ScanRequest true "Barcode and optional quantity (default 1)"
// @Success 200 {object} domain.PantryItem
// @Failure 400 {object} gin.H "Barcode is empty or not numeric"
// @Router /pantry [post]
func (h *PantryHandler) Scan(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	item, err := h.pantryService.ScanProduct(c.Request.Context(), uid, req.Code, req.Quantity)
	if err != nil {
		writePantryError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// SetQuantity godoc
// @Summary Overwrite an item's quantity (floored at 1)
// @Tags Pantry
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param code path string true "Barcode"
// @Param quantity body QuantityRequest true "New quantity"
// @Success 200 {object} domain.PantryItem
// @Failure 404 {object} gin.H "Item not in pantry"
// @Router /pantry/{code} [patch]
func (h *PantryHandler) SetQuantity(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	item, err := h.pantryService.SetQuantity(c.Request.Context(), uid, c.Param("code"), req.Quantity)
	if err != nil {
		writePantryError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Remove godoc
// @Summary Remove an item from the pantry
// @Tags Pantry
// @Security BearerAuth
// @Param code path string true "Barcode"
// @Success 204
// @Failure 404 {object} gin.H "Item not in pantry"
// @Router /pantry/{code} [delete]
func (h *PantryHandler) Remove(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.pantryService.Remove(c.Request.Context(), uid, c.Param("code")); err != nil {
		writePantryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProductDetails godoc
// @Summary Look a barcode up in Open Food Facts
// @Description Nutrients are per 100 g. Upstream failures are reported as 502, not 404.
// @Tags Pantry
// @Produce json
// @Security BearerAuth
// @Param code path string true "Barcode"
// @Success 200 {object} domain.Product
// @Failure 400 {object} gin.H "Barcode is empty or not numeric"
// @Failure 404 {object} gin.H "Unknown product"
// @Failure 502 {object} gin.H "Food database unreachable"
// @Router /products/{code} [get]
func (h *PantryHandler) ProductDetails(c *gin.Context) {
	product, err := h.pantryService.ProductDetails(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) || errors.Is(err, service.ErrInvalidBarcode) {
			writePantryError(c, err)
		} else {
			abortWithError(c, http.StatusBadGateway, "Food database lookup failed")
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// writePantryError maps pantry service errors to HTTP statuses.
func writePantryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPantryItemNotFound), errors.Is(err, service.ErrProductNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidBarcode):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
