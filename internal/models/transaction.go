package models

import (
	"time"
)

// TransactionType classifies a cash-flow entry.
type TransactionType string

const (
	TransactionRentalIncome     TransactionType = "rental_income"
	TransactionOperatingExpense TransactionType = "operating_expense"
	TransactionCapex            TransactionType = "capex"
	TransactionLoanPayment      TransactionType = "loan_payment"
	TransactionTaxPayment       TransactionType = "tax_payment"
	TransactionInsurance        TransactionType = "insurance"
	TransactionManagementFee    TransactionType = "management_fee"
)

// Transaction is the atomic unit of cash-flow history. All derived
// metrics are reductions over transaction sets filtered by date range
// and type.
type Transaction struct {
	ID            int64           `json:"id"`
	PropertyID    int64           `json:"property_id"`
	Type          TransactionType `json:"type"`
	Amount        float64         `json:"amount"`
	Date          time.Time       `json:"date"`
	TaxDeductible bool            `json:"tax_deductible"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsIncome reports whether the transaction counts toward gross rental
// income.
func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionRentalIncome
}

// IsExpense reports whether the transaction is an operating charge
// (capex and loan principal are not operating expenses).
func (t *Transaction) IsExpense() bool {
	switch t.Type {
	case TransactionOperatingExpense, TransactionInsurance, TransactionManagementFee:
		return true
	}
	return false
}

// InYear reports whether the transaction falls in the given calendar
// year.
func (t *Transaction) InYear(year int) bool {
	return t.Date.Year() == year
}

// FilterTransactions returns the subset of transactions matching the
// property and calendar year. A propertyID of 0 matches all properties.
func FilterTransactions(txs []Transaction, propertyID int64, year int) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if propertyID != 0 && tx.PropertyID != propertyID {
			continue
		}
		if !tx.InYear(year) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
