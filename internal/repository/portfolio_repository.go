package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/avergnaud/patrimonia/api/internal/database"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// PortfolioRepository loads read-only snapshots of the portfolio for
// the engine. The engine never writes: properties, loans, transactions
// and entities are owned by the surrounding application.
type PortfolioRepository interface {
	// GetEntity loads one legal entity with its regime settings.
	// Returns nil, nil when the entity does not exist.
	GetEntity(ctx context.Context, id int64) (*models.LegalEntity, error)

	// GetProperty loads one property. Returns nil, nil when absent.
	GetProperty(ctx context.Context, id int64) (*models.Property, error)

	// GetLoan loads one loan. Returns nil, nil when absent.
	GetLoan(ctx context.Context, id int64) (*models.Loan, error)

	// ListProperties loads every property, or only the entity's
	// properties when entityID is non-zero.
	ListProperties(ctx context.Context, entityID int64) ([]models.Property, error)

	// ListLoans loads every loan attached to the given properties.
	ListLoans(ctx context.Context, propertyIDs []int64) ([]models.Loan, error)

	// ListTransactionsByYear loads the transactions of one calendar
	// year, all properties confounded.
	ListTransactionsByYear(ctx context.Context, year int) ([]models.Transaction, error)
}

// portfolioRepository is the pgx-backed implementation.
type portfolioRepository struct {
	db *database.Database
}

// NewPortfolioRepository creates a PortfolioRepository over the shared
// connection pool.
func NewPortfolioRepository(db *database.Database) PortfolioRepository {
	return &portfolioRepository{db: db}
}

const propertyColumns = `
	id, entity_id, name, city, property_type,
	acquisition_price, acquisition_costs, acquisition_date,
	current_value, surface_area, monthly_rent,
	land_fraction, furnishing_value, created_at, updated_at`

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	err := row.Scan(
		&p.ID, &p.EntityID, &p.Name, &p.City, &p.PropertyType,
		&p.AcquisitionPrice, &p.AcquisitionCosts, &p.AcquisitionDate,
		&p.CurrentValue, &p.SurfaceArea, &p.MonthlyRent,
		&p.LandFraction, &p.FurnishingValue, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetEntity loads the entity row and unmarshals the settings JSON into
// the variant matching the regime tag, then checks tag/variant
// consistency before handing the entity to any calculator.
func (r *portfolioRepository) GetEntity(ctx context.Context, id int64) (*models.LegalEntity, error) {
	query := `
		SELECT id, name, regime, settings, created_at
		FROM legal_entities
		WHERE id = $1`

	var e models.LegalEntity
	var settings []byte
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&e.ID, &e.Name, &e.Regime, &settings, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query entity: %w", err)
	}

	switch e.Regime {
	case models.RegimeLMNP:
		e.LMNP = &models.LMNPSettings{}
		err = json.Unmarshal(settings, e.LMNP)
	case models.RegimeSCIIS:
		e.SCIIS = &models.SCIISSettings{}
		err = json.Unmarshal(settings, e.SCIIS)
	case models.RegimePersonal:
		e.Personal = &models.PersonalSettings{}
		err = json.Unmarshal(settings, e.Personal)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode entity settings: %w", err)
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *portfolioRepository) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`

	p, err := scanProperty(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query property: %w", err)
	}
	return p, nil
}

func (r *portfolioRepository) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	query := `
		SELECT id, property_id, principal, annual_rate, term_months,
		       start_date, current_balance, monthly_payment, created_at, updated_at
		FROM loans
		WHERE id = $1`

	var l models.Loan
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.PropertyID, &l.Principal, &l.AnnualRate, &l.TermMonths,
		&l.StartDate, &l.CurrentBalance, &l.MonthlyPayment, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query loan: %w", err)
	}
	return &l, nil
}

func (r *portfolioRepository) ListProperties(ctx context.Context, entityID int64) ([]models.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties`
	args := []interface{}{}
	if entityID != 0 {
		query += ` WHERE entity_id = $1`
		args = append(args, entityID)
	}
	query += ` ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}
	return properties, nil
}

func (r *portfolioRepository) ListLoans(ctx context.Context, propertyIDs []int64) ([]models.Loan, error) {
	query := `
		SELECT id, property_id, principal, annual_rate, term_months,
		       start_date, current_balance, monthly_payment, created_at, updated_at
		FROM loans
		WHERE property_id = ANY($1)
		ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer rows.Close()

	loans := []models.Loan{}
	for rows.Next() {
		var l models.Loan
		err := rows.Scan(
			&l.ID, &l.PropertyID, &l.Principal, &l.AnnualRate, &l.TermMonths,
			&l.StartDate, &l.CurrentBalance, &l.MonthlyPayment, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loans: %w", err)
	}
	return loans, nil
}

func (r *portfolioRepository) ListTransactionsByYear(ctx context.Context, year int) ([]models.Transaction, error) {
	query := `
		SELECT id, property_id, type, amount, date, tax_deductible,
		       COALESCE(description, ''), created_at
		FROM transactions
		WHERE EXTRACT(YEAR FROM date) = $1
		ORDER BY date, id`

	rows, err := r.db.Pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		err := rows.Scan(
			&tx.ID, &tx.PropertyID, &tx.Type, &tx.Amount, &tx.Date,
			&tx.TaxDeductible, &tx.Description, &tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txs, nil
}
