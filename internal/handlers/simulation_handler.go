package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/avergnaud/patrimonia/api/internal/errors"
	"github.com/avergnaud/patrimonia/api/internal/models"
	"github.com/avergnaud/patrimonia/api/internal/services"
)

// SimulationHandler handles scenario projection and refinancing
// requests.
type SimulationHandler struct {
	service services.SimulationService
}

// NewSimulationHandler creates a new SimulationHandler instance.
func NewSimulationHandler(service services.SimulationService) *SimulationHandler {
	return &SimulationHandler{service: service}
}

// SimulateRequest represents the body of the scenario endpoint.
// Assumptions left at zero fall back to the configured engine
// defaults; the base year defaults to the current year.
type SimulateRequest struct {
	Name         string                   `json:"name" binding:"required,max=200"`
	BaseYear     int                      `json:"base_year" binding:"omitempty,min=1950,max=2200"`
	HorizonYears int                      `json:"horizon_years" binding:"required,min=1,max=50"`
	Assumptions  models.GrowthAssumptions `json:"assumptions"`
	Events       []models.ScenarioEvent   `json:"events" binding:"omitempty,dive"`
}

// RefinanceRequest represents the body of the refinancing endpoint.
type RefinanceRequest struct {
	LoanID        int64   `json:"loan_id" binding:"required,gt=0"`
	NewAnnualRate float64 `json:"new_annual_rate" binding:"gte=0,lte=1"`
	NewTermMonths int     `json:"new_term_months" binding:"required,min=1,max=600"`
	ClosingCosts  float64 `json:"closing_costs" binding:"gte=0"`
}

// Simulate handles POST /api/v1/scenarios/simulate.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	scn := models.Scenario{
		Name:         req.Name,
		BaseYear:     req.BaseYear,
		HorizonYears: req.HorizonYears,
		Assumptions:  req.Assumptions,
		Events:       req.Events,
	}

	results, err := h.service.RunScenario(c.Request.Context(), scn)
	if err != nil {
		if errors.Is(err, services.ErrInvalidHorizon) || errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to run scenario simulation", err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// Refinance handles POST /api/v1/loans/refinance.
func (h *SimulationHandler) Refinance(c *gin.Context) {
	var req RefinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	analysis, err := h.service.AnalyzeRefinancing(c.Request.Context(), req.LoanID, req.NewAnnualRate, req.NewTermMonths, req.ClosingCosts)
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			apierrors.NotFound(c, "No loan with this id")
			return
		}
		apierrors.InternalServerError(c, "Failed to analyze refinancing", err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
