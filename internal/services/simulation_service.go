package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avergnaud/patrimonia/api/internal/config"
	"github.com/avergnaud/patrimonia/api/internal/loan"
	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/models"
	"github.com/avergnaud/patrimonia/api/internal/repository"
	"github.com/avergnaud/patrimonia/api/internal/scenario"
)

// Horizon validation bounds.
const (
	MinHorizonYears = 1
	MaxHorizonYears = 50
)

// Service-level errors
var (
	ErrInvalidHorizon = errors.New("horizon must be between 1 and 50 years")
	ErrLoanNotFound   = errors.New("loan not found")
)

// SimulationService runs multi-year scenario projections and loan
// refinancing analytics.
type SimulationService interface {
	// RunScenario projects the current portfolio over the scenario
	// horizon. Unset growth assumptions fall back to the configured
	// engine defaults; an unset base year falls back to the current
	// year.
	RunScenario(ctx context.Context, scn models.Scenario) (*scenario.Results, error)

	// AnalyzeRefinancing compares the loan against a refinancing
	// candidate. Returns ErrLoanNotFound when the loan is absent.
	AnalyzeRefinancing(ctx context.Context, loanID int64, newRate float64, newTermMonths int, closingCosts float64) (*loan.RefinancingAnalysis, error)
}

type simulationService struct {
	repo     repository.PortfolioRepository
	defaults config.EngineConfig
	log      *logger.Logger
}

// NewSimulationService creates a SimulationService with the configured
// default growth assumptions.
func NewSimulationService(repo repository.PortfolioRepository, defaults config.EngineConfig, log *logger.Logger) SimulationService {
	return &simulationService{repo: repo, defaults: defaults, log: log}
}

// applyDefaults fills unset scenario fields from the engine defaults.
func (s *simulationService) applyDefaults(scn models.Scenario) models.Scenario {
	if scn.BaseYear == 0 {
		scn.BaseYear = time.Now().Year()
	}
	a := &scn.Assumptions
	if a.AppreciationRate == 0 {
		a.AppreciationRate = s.defaults.AppreciationRate
	}
	if a.RentGrowthRate == 0 {
		a.RentGrowthRate = s.defaults.RentGrowthRate
	}
	if a.ExpenseInflationRate == 0 {
		a.ExpenseInflationRate = s.defaults.ExpenseInflationRate
	}
	if a.DiscountRate == 0 {
		a.DiscountRate = s.defaults.DiscountRate
	}
	return scn
}

func (s *simulationService) RunScenario(ctx context.Context, scn models.Scenario) (*scenario.Results, error) {
	if scn.HorizonYears < MinHorizonYears || scn.HorizonYears > MaxHorizonYears {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, scn.HorizonYears)
	}

	scn = s.applyDefaults(scn)
	if err := validYear(scn.BaseYear); err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, s.repo, scn.BaseYear)
	if err != nil {
		s.log.Error("Failed to load portfolio snapshot", err, map[string]interface{}{"base_year": scn.BaseYear})
		return nil, err
	}

	results := scenario.Run(snap.Properties, snap.Loans, snap.Transactions, scn)

	s.log.Info("Scenario simulation completed", map[string]interface{}{
		"run_id":        results.RunID,
		"scenario":      scn.Name,
		"base_year":     scn.BaseYear,
		"horizon_years": scn.HorizonYears,
		"events":        len(scn.Events),
		"irr":           results.Summary.IRR,
		"irr_converged": results.Summary.IRRConverged,
	})
	return &results, nil
}

func (s *simulationService) AnalyzeRefinancing(ctx context.Context, loanID int64, newRate float64, newTermMonths int, closingCosts float64) (*loan.RefinancingAnalysis, error) {
	current, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		s.log.Error("Failed to load loan", err, map[string]interface{}{"loan_id": loanID})
		return nil, fmt.Errorf("failed to load loan: %w", err)
	}
	if current == nil {
		return nil, ErrLoanNotFound
	}

	analysis := loan.AnalyzeRefinancing(loan.RefinancingInput{
		CurrentBalance:      current.CurrentBalance,
		CurrentAnnualRate:   current.AnnualRate,
		RemainingTermMonths: current.RemainingTermMonths(time.Now()),
		NewAnnualRate:       newRate,
		NewTermMonths:       newTermMonths,
		ClosingCosts:        closingCosts,
		DiscountRate:        s.defaults.DiscountRate,
	})

	s.log.Info("Refinancing analysis completed", map[string]interface{}{
		"loan_id":          loanID,
		"monthly_savings":  analysis.MonthlySavings,
		"breakeven_months": analysis.BreakevenMonths,
		"recommended":      analysis.Recommended,
	})
	return &analysis, nil
}
