package fiscal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avergnaud/patrimonia/api/internal/models"
)

func testRules() []models.ComponentRule {
	return models.DefaultLMNPSettings().Components
}

func TestAnnualDepreciation_LinearCharge(t *testing.T) {
	in := DepreciationInput{
		AcquisitionPrice: 200000,
		LandFraction:     0.2,
		FurnishingValue:  10000,
		AcquisitionYear:  2020,
	}

	components := AnnualDepreciation(in, testRules(), 2023)

	// Building base excludes the land fraction: 160000 x 2.5% = 4000.
	require.Len(t, components, 4)
	assert.Equal(t, models.ComponentBuilding, components[0].Kind)
	assert.InDelta(t, 4000.0, components[0].Amount, 0.01)
	assert.Equal(t, models.ComponentFurniture, components[1].Kind)
	assert.InDelta(t, 1000.0, components[1].Amount, 0.01)
	assert.Zero(t, components[2].Amount)
	assert.Zero(t, components[3].Amount)

	assert.InDelta(t, 5000.0, TotalDepreciation(components), 0.01)
}

func TestAnnualDepreciation_ZeroOutsideHorizon(t *testing.T) {
	in := DepreciationInput{
		AcquisitionPrice: 200000,
		LandFraction:     0.2,
		FurnishingValue:  10000,
		AcquisitionYear:  2000,
	}

	t.Run("before acquisition", func(t *testing.T) {
		components := AnnualDepreciation(in, testRules(), 1999)
		assert.Zero(t, TotalDepreciation(components))
	})

	t.Run("furniture stops after its horizon", func(t *testing.T) {
		// Year 2012 is 12 years in: the 10-year furniture horizon has
		// expired while the 40-year building keeps depreciating.
		components := AnnualDepreciation(in, testRules(), 2012)
		assert.InDelta(t, 4000.0, components[0].Amount, 0.01)
		assert.Zero(t, components[1].Amount)
	})

	t.Run("everything stops after the longest horizon", func(t *testing.T) {
		components := AnnualDepreciation(in, testRules(), 2041)
		assert.Zero(t, TotalDepreciation(components))
	})
}

func TestAnnualDepreciation_CappedAtRemainingBase(t *testing.T) {
	// A 30% rate over a 4-year horizon exhausts the base in year 3:
	// 300 + 300 + 300 leaves only 100 for the final year.
	in := DepreciationInput{WorksValue: 1000, AcquisitionYear: 2020}
	rules := []models.ComponentRule{{Kind: models.ComponentWorks, Rate: 0.3, HorizonYears: 4}}

	assert.InDelta(t, 300.0, TotalDepreciation(AnnualDepreciation(in, rules, 2022)), 0.01)
	assert.InDelta(t, 100.0, TotalDepreciation(AnnualDepreciation(in, rules, 2023)), 0.01)
}

func TestCapDepreciation(t *testing.T) {
	components := []ComponentDepreciation{
		{Kind: models.ComponentBuilding, Amount: 4000},
		{Kind: models.ComponentFurniture, Amount: 1000},
	}

	t.Run("ceiling splits across components in order", func(t *testing.T) {
		capped := CapDepreciation(components, 4500)
		assert.InDelta(t, 4000.0, capped[0].Amount, 0.01)
		assert.InDelta(t, 500.0, capped[1].Amount, 0.01)
	})

	t.Run("ceiling above total changes nothing", func(t *testing.T) {
		capped := CapDepreciation(components, 10000)
		assert.InDelta(t, 5000.0, TotalDepreciation(capped), 0.01)
	})

	t.Run("negative ceiling clamps to zero", func(t *testing.T) {
		capped := CapDepreciation(components, -100)
		assert.Zero(t, TotalDepreciation(capped))
	})
}

func TestDepreciationInputFromProperty(t *testing.T) {
	p := models.Property{
		ID:               7,
		AcquisitionPrice: 180000,
		LandFraction:     0.15,
		FurnishingValue:  8000,
		AcquisitionDate:  time.Date(2019, time.September, 1, 0, 0, 0, 0, time.UTC),
	}
	txs := []models.Transaction{
		{PropertyID: 7, Type: models.TransactionCapex, Amount: -12000, Date: time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{PropertyID: 7, Type: models.TransactionCapex, Amount: 3000, Date: time.Date(2021, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{PropertyID: 9, Type: models.TransactionCapex, Amount: 5000, Date: time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{PropertyID: 7, Type: models.TransactionOperatingExpense, Amount: -900, Date: time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)},
	}

	in := DepreciationInputFromProperty(p, txs)

	assert.Equal(t, 180000.0, in.AcquisitionPrice)
	assert.Equal(t, 0.15, in.LandFraction)
	assert.Equal(t, 8000.0, in.FurnishingValue)
	// Capex history lands in the works base regardless of sign
	// convention; other properties and expense types are ignored.
	assert.InDelta(t, 15000.0, in.WorksValue, 0.01)
	assert.Equal(t, 2019, in.AcquisitionYear)
}
