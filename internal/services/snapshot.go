package services

import (
	"context"
	"fmt"

	"github.com/avergnaud/patrimonia/api/internal/models"
	"github.com/avergnaud/patrimonia/api/internal/repository"
)

// snapshot is the in-memory view of the portfolio the engine consumes:
// properties, their loans, and one year of transaction history.
type snapshot struct {
	Properties   []models.Property
	Loans        []models.Loan
	Transactions []models.Transaction
}

// loadSnapshot loads every property (or only one entity's when
// entityID is passed through loadEntitySnapshot), the loans attached to
// them and the year's transactions.
func loadSnapshot(ctx context.Context, repo repository.PortfolioRepository, year int) (*snapshot, error) {
	return loadEntitySnapshot(ctx, repo, 0, year)
}

func loadEntitySnapshot(ctx context.Context, repo repository.PortfolioRepository, entityID int64, year int) (*snapshot, error) {
	properties, err := repo.ListProperties(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load properties: %w", err)
	}

	ids := make([]int64, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}

	loans := []models.Loan{}
	if len(ids) > 0 {
		loans, err = repo.ListLoans(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load loans: %w", err)
		}
	}

	txs, err := repo.ListTransactionsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return &snapshot{Properties: properties, Loans: loans, Transactions: txs}, nil
}
