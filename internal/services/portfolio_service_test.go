package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

// MockPortfolioRepository is a mock implementation of
// repository.PortfolioRepository for testing.
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) GetEntity(ctx context.Context, id int64) (*models.LegalEntity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegalEntity), args.Error(1)
}

func (m *MockPortfolioRepository) GetProperty(ctx context.Context, id int64) (*models.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Property), args.Error(1)
}

func (m *MockPortfolioRepository) GetLoan(ctx context.Context, id int64) (*models.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func (m *MockPortfolioRepository) ListProperties(ctx context.Context, entityID int64) ([]models.Property, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Property), args.Error(1)
}

func (m *MockPortfolioRepository) ListLoans(ctx context.Context, propertyIDs []int64) ([]models.Loan, error) {
	args := m.Called(ctx, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Loan), args.Error(1)
}

func (m *MockPortfolioRepository) ListTransactionsByYear(ctx context.Context, year int) ([]models.Transaction, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func testSnapshot() ([]models.Property, []models.Loan, []models.Transaction) {
	properties := []models.Property{{
		ID:               1,
		EntityID:         1,
		CurrentValue:     300000,
		AcquisitionPrice: 250000,
		AcquisitionDate:  time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}}
	loans := []models.Loan{{
		ID:             1,
		PropertyID:     1,
		Principal:      200000,
		AnnualRate:     0.03,
		TermMonths:     240,
		StartDate:      time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC),
		CurrentBalance: 160000,
		MonthlyPayment: 1109,
	}}
	txs := []models.Transaction{{
		ID:         1,
		PropertyID: 1,
		Type:       models.TransactionRentalIncome,
		Amount:     18000,
		Date:       time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}}
	return properties, loans, txs
}

func TestGetPortfolioKPIs_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewPortfolioService(mockRepo, log)

	ctx := context.Background()
	properties, loans, txs := testSnapshot()

	mockRepo.On("ListProperties", ctx, int64(0)).Return(properties, nil)
	mockRepo.On("ListLoans", ctx, []int64{1}).Return(loans, nil)
	mockRepo.On("ListTransactionsByYear", ctx, 2024).Return(txs, nil)

	// Act
	result, err := service.GetPortfolioKPIs(ctx, 2024)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.PropertyCount)
	assert.Equal(t, 300000.0, result.TotalValue)
	assert.Equal(t, 160000.0, result.TotalDebt)
	mockRepo.AssertExpectations(t)
}

func TestGetPortfolioKPIs_InvalidYear(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewPortfolioService(mockRepo, log)

	for _, year := range []int{1949, 2201, -5} {
		result, err := service.GetPortfolioKPIs(context.Background(), year)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrInvalidYear)
	}
	mockRepo.AssertNotCalled(t, "ListProperties")
}

func TestGetPortfolioKPIs_RepositoryError(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewPortfolioService(mockRepo, log)

	ctx := context.Background()
	dbError := errors.New("connection refused")
	mockRepo.On("ListProperties", ctx, int64(0)).Return(nil, dbError)

	result, err := service.GetPortfolioKPIs(ctx, 2024)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, dbError)
	mockRepo.AssertExpectations(t)
}

func TestGetPropertyKPIs_Success(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewPortfolioService(mockRepo, log)

	ctx := context.Background()
	properties, loans, txs := testSnapshot()

	mockRepo.On("GetProperty", ctx, int64(1)).Return(&properties[0], nil)
	mockRepo.On("ListLoans", ctx, []int64{1}).Return(loans, nil)
	mockRepo.On("ListTransactionsByYear", ctx, 2024).Return(txs, nil)

	result, err := service.GetPropertyKPIs(ctx, 1, 2024)

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int64(1), result.PropertyID)
	assert.InDelta(t, 18000.0, result.AnnualRentalIncome, 0.01)
	mockRepo.AssertExpectations(t)
}

func TestGetPropertyKPIs_NotFound(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewPortfolioService(mockRepo, log)

	ctx := context.Background()
	// Repository returns nil, nil when no property exists.
	mockRepo.On("GetProperty", ctx, int64(42)).Return(nil, nil)

	result, err := service.GetPropertyKPIs(ctx, 42, 2024)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrPropertyNotFound)
	mockRepo.AssertExpectations(t)
}

func TestCompareProperties_Success(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewPortfolioService(mockRepo, log)

	ctx := context.Background()
	properties, loans, txs := testSnapshot()

	mockRepo.On("ListProperties", ctx, int64(0)).Return(properties, nil)
	mockRepo.On("ListLoans", ctx, []int64{1}).Return(loans, nil)
	mockRepo.On("ListTransactionsByYear", ctx, 2024).Return(txs, nil)

	report, err := service.CompareProperties(ctx, 2024)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Len(t, report.Scores, 1)
	assert.Equal(t, int64(1), report.BestOverall)
	mockRepo.AssertExpectations(t)
}
