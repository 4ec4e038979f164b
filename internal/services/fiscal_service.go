package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/avergnaud/patrimonia/api/internal/advisor"
	"github.com/avergnaud/patrimonia/api/internal/fiscal"
	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/models"
	"github.com/avergnaud/patrimonia/api/internal/repository"
)

// Service-level errors
var (
	ErrEntityNotFound = errors.New("legal entity not found")
)

// FiscalService runs the regime tax calculators and the optimization
// advisor over one entity's property set.
type FiscalService interface {
	// CalculateTax runs the calculator matching the entity's regime
	// for the given calendar year.
	// Returns ErrEntityNotFound when the entity does not exist.
	CalculateTax(ctx context.Context, entityID int64, year int) (*fiscal.TaxResult, error)

	// Advise ranks all candidate regimes for the entity's property
	// set and derives restructuring suggestions.
	Advise(ctx context.Context, entityID int64, year int) (*advisor.Report, error)
}

type fiscalService struct {
	repo repository.PortfolioRepository
	log  *logger.Logger
}

// NewFiscalService creates a FiscalService.
func NewFiscalService(repo repository.PortfolioRepository, log *logger.Logger) FiscalService {
	return &fiscalService{repo: repo, log: log}
}

// loadEntity loads and validates the entity plus its property snapshot.
func (s *fiscalService) loadEntity(ctx context.Context, entityID int64, year int) (*models.LegalEntity, *snapshot, error) {
	entity, err := s.repo.GetEntity(ctx, entityID)
	if err != nil {
		s.log.Error("Failed to load entity", err, map[string]interface{}{"entity_id": entityID})
		return nil, nil, fmt.Errorf("failed to load entity: %w", err)
	}
	if entity == nil {
		return nil, nil, ErrEntityNotFound
	}

	snap, err := loadEntitySnapshot(ctx, s.repo, entityID, year)
	if err != nil {
		return nil, nil, err
	}
	return entity, snap, nil
}

// CalculateTax dispatches on the entity's settings variant; the tagged
// variant guarantees the calculator always receives settings for its
// own regime.
func (s *fiscalService) CalculateTax(ctx context.Context, entityID int64, year int) (*fiscal.TaxResult, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}

	entity, snap, err := s.loadEntity(ctx, entityID, year)
	if err != nil {
		return nil, err
	}

	var result fiscal.TaxResult
	switch entity.Regime {
	case models.RegimeLMNP:
		result = fiscal.CalculateLMNP(snap.Properties, snap.Transactions, *entity.LMNP, year)
	case models.RegimeSCIIS:
		result = fiscal.CalculateSCIIS(snap.Properties, snap.Transactions, *entity.SCIIS, year, 0)
	case models.RegimePersonal:
		result = fiscal.CalculatePersonal(snap.Properties, snap.Transactions, *entity.Personal, year)
	default:
		return nil, fmt.Errorf("%w: unknown regime %q", models.ErrRegimeSettingsMismatch, entity.Regime)
	}

	s.log.Info("Tax calculation completed", map[string]interface{}{
		"entity_id":      entityID,
		"regime":         entity.Regime,
		"year":           year,
		"taxable_result": result.TaxableResult,
		"tax_due":        result.TaxDue,
	})
	return &result, nil
}

func (s *fiscalService) Advise(ctx context.Context, entityID int64, year int) (*advisor.Report, error) {
	if err := validYear(year); err != nil {
		return nil, err
	}

	entity, snap, err := s.loadEntity(ctx, entityID, year)
	if err != nil {
		return nil, err
	}

	report := advisor.Advise(*entity, snap.Properties, snap.Transactions, year)

	s.log.Info("Regime comparison completed", map[string]interface{}{
		"entity_id":   entityID,
		"year":        year,
		"suggestions": len(report.Suggestions),
	})
	return &report, nil
}
