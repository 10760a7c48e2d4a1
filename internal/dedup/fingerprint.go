// Package dedup decides which candidate transactions are safe to import
// given what is already persisted. Pure and deterministic: same inputs and
// policy, same partition.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faturaflow/statement-import/internal/models"
	"github.com/faturaflow/statement-import/internal/normalizer"
)

// Fingerprint computes a deterministic identity over a transaction's
// observable fields, used for exact-duplicate detection. Same description,
// amount (2 decimals), date and kind always hash the same.
func Fingerprint(desc string, amount decimal.Decimal, date time.Time, kind models.TransactionKind) string {
	parts := []string{
		"desc:" + normalizeForHash(desc),
		"amount:" + amount.StringFixed(2),
		"date:" + date.Format("2006-01-02"),
		"kind:" + string(kind),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "txn_" + hex.EncodeToString(sum[:])
}

// GroupID computes the identifier shared by every parcel of one purchase:
// normalized base description + per-installment amount + declared total.
// Independent of which statement month a parcel appears on.
func GroupID(baseDesc string, perInstallment decimal.Decimal, total uint) string {
	parts := []string{
		"base:" + normalizeForHash(baseDesc),
		"amount:" + perInstallment.StringFixed(2),
		fmt.Sprintf("total:%d", total),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "grp_" + hex.EncodeToString(sum[:])
}

// candidateFingerprint hashes an extracted candidate.
func candidateFingerprint(tx models.ExtractedTransaction) string {
	return Fingerprint(tx.Description, tx.Amount, tx.Date, tx.Kind)
}

// persistedFingerprint hashes a stored transaction with the same fields.
func persistedFingerprint(tx models.PersistedTransaction) string {
	return Fingerprint(tx.Description, tx.Amount, tx.Date, tx.Kind)
}

// groupIDFor derives the installment group id for a transaction, when it
// carries a resolvable marker.
func groupIDFor(desc string, amount decimal.Decimal, inst *models.Installment) (string, bool) {
	if !inst.Valid() {
		return "", false
	}
	return GroupID(normalizer.BaseKey(desc), amount, inst.Total), true
}

// normalizeForHash folds case and collapses whitespace so cosmetic
// differences do not split identities.
func normalizeForHash(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
