package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind tells purchases apart from payments/refunds.
// Statement lines carry a leading minus sign for credits; the sign is
// recorded here and the stored amount is always the magnitude.
type TransactionKind string

const (
	KindDebit  TransactionKind = "DEBIT"
	KindCredit TransactionKind = "CREDIT"
)

// MaxInstallmentTotal bounds how many parcels a purchase can declare.
const MaxInstallmentTotal = 999

// Installment marks one parcel of a multi-month purchase, e.g. "PARC02/05".
// A nil *Installment on a transaction means a single (non-installment)
// purchase. Ambiguous is set when the statement lost the total digit and the
// resolver could not recover it; Total is zero in that case.
type Installment struct {
	Current   uint `json:"current"`
	Total     uint `json:"total"`
	Ambiguous bool `json:"ambiguous,omitempty"`
}

// Valid reports whether the marker satisfies 1 <= current <= total <= 999.
func (i *Installment) Valid() bool {
	if i == nil {
		return false
	}
	return i.Current >= 1 && i.Current <= i.Total && i.Total <= MaxInstallmentTotal
}

// ExtractedTransaction is one candidate transaction produced by a statement
// parser. It lives for a single import run and is never persisted directly.
type ExtractedTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"` // non-negative magnitude
	Kind        TransactionKind `json:"kind"`
	Installment *Installment    `json:"installment,omitempty"`
}

// PersistedTransaction is a previously stored transaction for the same user.
// Read-only to this core; it carries just enough to recompute the
// fingerprint and installment group id.
type PersistedTransaction struct {
	ID          string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        TransactionKind
	Installment *Installment
	CategoryID  string
}

// Category is a user category as the store reports it.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryMatch is the advisory result of category recognition. The zero
// value means "no match" and is a valid, expected outcome, not an error.
type CategoryMatch struct {
	CategoryID   string  `json:"categoryId,omitempty"`
	CategoryName string  `json:"categoryName,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// Matched reports whether recognition produced a usable category.
func (m CategoryMatch) Matched() bool {
	return m.CategoryName != "" && m.Confidence > 0
}
