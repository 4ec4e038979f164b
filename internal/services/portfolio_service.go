package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avergnaud/patrimonia/api/internal/comparator"
	"github.com/avergnaud/patrimonia/api/internal/kpi"
	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/repository"
)

// Year validation bounds shared by the services: transaction history
// and projections live in this window.
const (
	MinYear = 1950
	MaxYear = 2200
)

// Service-level errors
var (
	ErrInvalidYear      = errors.New("year out of supported range")
	ErrPropertyNotFound = errors.New("property not found")
)

// PortfolioService exposes the regime-agnostic portfolio analytics.
type PortfolioService interface {
	// GetPortfolioKPIs computes the portfolio-level ratios for the
	// given calendar year, with the per-property breakdown attached.
	GetPortfolioKPIs(ctx context.Context, year int) (*kpi.PortfolioKPI, error)

	// GetPropertyKPIs computes one property's ratios for the year.
	// Returns ErrPropertyNotFound when the property does not exist.
	GetPropertyKPIs(ctx context.Context, propertyID int64, year int) (*kpi.PropertyKPI, error)

	// CompareProperties scores and ranks every property and derives
	// the recommendation list.
	CompareProperties(ctx context.Context, year int) (*comparator.Report, error)
}

type portfolioService struct {
	repo repository.PortfolioRepository
	log  *logger.Logger
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(repo repository.PortfolioRepository, log *logger.Logger) PortfolioService {
	return &portfolioService{repo: repo, log: log}
}

// validYear bounds-checks a requested calendar year.
func validYear(year int) error {
	if year < MinYear || year > MaxYear {
		return fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}
	return nil
}

// loadSnapshot pulls the properties, their loans and the year's
// transactions in one place so every analytics call sees a consistent
// snapshot shape.
func (s *portfolioService) loadSnapshot(ctx context.Context, year int) (*snapshot, error) {
	return loadSnapshot(ctx, s.repo, year)
}

func (s *portfolioService) GetPortfolioKPIs(ctx context.Context, year int) (*kpi.PortfolioKPI, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, year)
	if err != nil {
		s.log.Error("Failed to load portfolio snapshot", err, map[string]interface{}{"year": year})
		return nil, err
	}

	result := kpi.ComputePortfolioKPI(snap.Properties, snap.Loans, snap.Transactions, year)

	s.log.Info("Portfolio KPIs computed", map[string]interface{}{
		"year":           year,
		"property_count": result.PropertyCount,
		"total_value":    result.TotalValue,
	})
	return &result, nil
}

func (s *portfolioService) GetPropertyKPIs(ctx context.Context, propertyID int64, year int) (*kpi.PropertyKPI, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}

	property, err := s.repo.GetProperty(ctx, propertyID)
	if err != nil {
		s.log.Error("Failed to load property", err, map[string]interface{}{"property_id": propertyID})
		return nil, fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	loans, err := s.repo.ListLoans(ctx, []int64{propertyID})
	if err != nil {
		return nil, fmt.Errorf("failed to load loans: %w", err)
	}
	txs, err := s.repo.ListTransactionsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	result := kpi.ComputePropertyKPI(*property, loans, txs, year)
	return &result, nil
}

func (s *portfolioService) CompareProperties(ctx context.Context, year int) (*comparator.Report, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, year)
	if err != nil {
		s.log.Error("Failed to load portfolio snapshot", err, map[string]interface{}{"year": year})
		return nil, err
	}

	report := comparator.Compare(snap.Properties, snap.Loans, snap.Transactions, year)

	s.log.Info("Property comparison computed", map[string]interface{}{
		"year":            year,
		"scored":          len(report.Scores),
		"recommendations": len(report.Recommendations),
	})
	return &report, nil
}
