package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/avergnaud/patrimonia/api/internal/errors"
	"github.com/avergnaud/patrimonia/api/internal/middleware"
	"github.com/avergnaud/patrimonia/api/internal/services"
)

// PortfolioHandler handles KPI and property-comparison requests.
type PortfolioHandler struct {
	service services.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler instance.
func NewPortfolioHandler(service services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// YearRequest represents the query parameters shared by the analytics
// endpoints. Year defaults to the current calendar year when omitted.
type YearRequest struct {
	Year int `form:"year" binding:"omitempty,min=1950,max=2200"`
}

// yearOrNow resolves the requested year, defaulting to today's.
func yearOrNow(year int) int {
	if year == 0 {
		return time.Now().Year()
	}
	return year
}

// bindYear binds the shared year query parameter, shaping validation
// failures itself. Returns false when a response was already written.
func bindYear(c *gin.Context) (int, bool) {
	var req YearRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return 0, false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return 0, false
	}
	return yearOrNow(req.Year), true
}

// PortfolioKPIs handles GET /api/v1/portfolio/kpis.
func (h *PortfolioHandler) PortfolioKPIs(c *gin.Context) {
	year, ok := bindYear(c)
	if !ok {
		return
	}

	result, err := h.service.GetPortfolioKPIs(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to compute portfolio KPIs", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PropertyKPIs handles GET /api/v1/properties/:id/kpis.
func (h *PortfolioHandler) PropertyKPIs(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || propertyID <= 0 {
		apierrors.BadRequest(c, "Property id must be a positive integer", nil)
		return
	}

	year, ok := bindYear(c)
	if !ok {
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Processing property KPI request", map[string]interface{}{
			"property_id": propertyID,
			"year":        year,
		})
	}

	result, err := h.service.GetPropertyKPIs(c.Request.Context(), propertyID, year)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "No property with this id")
			return
		}
		if errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to compute property KPIs", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CompareProperties handles GET /api/v1/properties/compare.
func (h *PortfolioHandler) CompareProperties(c *gin.Context) {
	year, ok := bindYear(c)
	if !ok {
		return
	}

	report, err := h.service.CompareProperties(c.Request.Context(), year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to compare properties", err)
		return
	}

	c.JSON(http.StatusOK, report)
}
