package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTransaction_Classification(t *testing.T) {
	income := Transaction{Type: TransactionRentalIncome}
	assert.True(t, income.IsIncome())
	assert.False(t, income.IsExpense())

	expense := Transaction{Type: TransactionOperatingExpense}
	assert.False(t, expense.IsIncome())
	assert.True(t, expense.IsExpense())

	insurance := Transaction{Type: TransactionInsurance}
	assert.True(t, insurance.IsExpense())

	fee := Transaction{Type: TransactionManagementFee}
	assert.True(t, fee.IsExpense())

	// Capital and debt movements are neither income nor operating expense.
	capex := Transaction{Type: TransactionCapex}
	assert.False(t, capex.IsIncome())
	assert.False(t, capex.IsExpense())

	loanPayment := Transaction{Type: TransactionLoanPayment}
	assert.False(t, loanPayment.IsExpense())
}

func TestFilterTransactions(t *testing.T) {
	txs := []Transaction{
		{ID: 1, PropertyID: 10, Date: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, PropertyID: 10, Date: time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, PropertyID: 20, Date: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("filters by property and year", func(t *testing.T) {
		out := FilterTransactions(txs, 10, 2024)
		assert.Len(t, out, 1)
		assert.Equal(t, int64(1), out[0].ID)
	})

	t.Run("property zero matches all properties", func(t *testing.T) {
		out := FilterTransactions(txs, 0, 2024)
		assert.Len(t, out, 2)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		out := FilterTransactions(txs, 30, 2024)
		assert.Empty(t, out)
	})
}
