package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/avergnaud/patrimonia/api/internal/models"
)

func fiscalFixture() (*models.LegalEntity, []models.Property, []models.Transaction) {
	entity := models.NewLMNPEntity(1, "Furnished rentals", nil)
	properties := []models.Property{{
		ID:               1,
		EntityID:         1,
		AcquisitionPrice: 200000,
		LandFraction:     0.2,
		FurnishingValue:  10000,
		AcquisitionDate:  time.Date(2020, time.January, 10, 0, 0, 0, 0, time.UTC),
	}}
	txs := []models.Transaction{
		{
			PropertyID: 1,
			Type:       models.TransactionRentalIncome,
			Amount:     12000,
			Date:       time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			PropertyID:    1,
			Type:          models.TransactionOperatingExpense,
			Amount:        -3000,
			Date:          time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			TaxDeductible: true,
		},
	}
	return &entity, properties, txs
}

func TestCalculateTax_LMNP(t *testing.T) {
	// Arrange
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewFiscalService(mockRepo, log)

	ctx := context.Background()
	entity, properties, txs := fiscalFixture()

	mockRepo.On("GetEntity", ctx, int64(1)).Return(entity, nil)
	mockRepo.On("ListProperties", ctx, int64(1)).Return(properties, nil)
	mockRepo.On("ListLoans", ctx, []int64{1}).Return([]models.Loan{}, nil)
	mockRepo.On("ListTransactionsByYear", ctx, 2024).Return(txs, nil)

	// Act
	result, err := service.CalculateTax(ctx, 1, 2024)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.RegimeLMNP, result.Regime)
	assert.InDelta(t, 12000.0, result.GrossIncome, 0.01)
	// Building 4000 + furniture 1000 against a 9000 operating result.
	assert.InDelta(t, 5000.0, result.DepreciationTotal, 0.01)
	assert.InDelta(t, 4000.0, result.TaxableResult, 0.01)
	mockRepo.AssertExpectations(t)
}

func TestCalculateTax_EntityNotFound(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewFiscalService(mockRepo, log)

	ctx := context.Background()
	mockRepo.On("GetEntity", ctx, int64(7)).Return(nil, nil)

	result, err := service.CalculateTax(ctx, 7, 2024)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEntityNotFound)
	mockRepo.AssertExpectations(t)
}

func TestCalculateTax_InvalidYear(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewFiscalService(mockRepo, log)

	result, err := service.CalculateTax(context.Background(), 1, 1800)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidYear)
	mockRepo.AssertNotCalled(t, "GetEntity")
}

func TestAdvise_Success(t *testing.T) {
	mockRepo := new(MockPortfolioRepository)
	log := logger.New("test")
	service := NewFiscalService(mockRepo, log)

	ctx := context.Background()
	entity, properties, txs := fiscalFixture()

	mockRepo.On("GetEntity", ctx, int64(1)).Return(entity, nil)
	mockRepo.On("ListProperties", ctx, int64(1)).Return(properties, nil)
	mockRepo.On("ListLoans", ctx, []int64{1}).Return([]models.Loan{}, nil)
	mockRepo.On("ListTransactionsByYear", ctx, 2024).Return(txs, nil)

	report, err := service.Advise(ctx, 1, 2024)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, models.RegimeLMNP, report.CurrentRegime)
	assert.Len(t, report.Comparisons, 3)
	mockRepo.AssertExpectations(t)
}
