package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/avergnaud/patrimonia/api/internal/errors"
	"github.com/avergnaud/patrimonia/api/internal/services"
)

// FiscalHandler handles tax calculation and regime advisory requests.
type FiscalHandler struct {
	service services.FiscalService
}

// NewFiscalHandler creates a new FiscalHandler instance.
func NewFiscalHandler(service services.FiscalService) *FiscalHandler {
	return &FiscalHandler{service: service}
}

// TaxRequest represents the body of the tax endpoints.
type TaxRequest struct {
	EntityID int64 `json:"entity_id" binding:"required,gt=0"`
	Year     int   `json:"year" binding:"omitempty,min=1950,max=2200"`
}

// bindTaxRequest binds and validates the shared tax request body.
// Returns false when a response was already written.
func bindTaxRequest(c *gin.Context) (TaxRequest, bool) {
	var req TaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return req, false
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return req, false
	}
	req.Year = yearOrNow(req.Year)
	return req, true
}

// Calculate handles POST /api/v1/tax/calculate.
func (h *FiscalHandler) Calculate(c *gin.Context) {
	req, ok := bindTaxRequest(c)
	if !ok {
		return
	}

	result, err := h.service.CalculateTax(c.Request.Context(), req.EntityID, req.Year)
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			apierrors.NotFound(c, "No legal entity with this id")
			return
		}
		if errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to calculate tax", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Compare handles POST /api/v1/tax/compare.
func (h *FiscalHandler) Compare(c *gin.Context) {
	req, ok := bindTaxRequest(c)
	if !ok {
		return
	}

	report, err := h.service.Advise(c.Request.Context(), req.EntityID, req.Year)
	if err != nil {
		if errors.Is(err, services.ErrEntityNotFound) {
			apierrors.NotFound(c, "No legal entity with this id")
			return
		}
		if errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to compare regimes", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
