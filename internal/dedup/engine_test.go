package dedup

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faturaflow/statement-import/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func candidate(desc, amount string, date time.Time, inst *models.Installment) models.ExtractedTransaction {
	return models.ExtractedTransaction{
		Date:        date,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Kind:        models.KindDebit,
		Installment: inst,
	}
}

func persisted(desc, amount string, date time.Time, inst *models.Installment) models.PersistedTransaction {
	return models.PersistedTransaction{
		ID:          "tx-" + desc,
		Date:        date,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Kind:        models.KindDebit,
		Installment: inst,
	}
}

func TestFilter_ExactDuplicateBlocked(t *testing.T) {
	oct := day(2025, time.October, 15)
	existing := []models.PersistedTransaction{
		persisted("PADARIA ESTRELA", "12.50", oct, nil),
	}
	cands := []models.ExtractedTransaction{
		candidate("PADARIA ESTRELA", "12.50", oct, nil),
		candidate("padaria  estrela", "12.50", oct, nil),
		candidate("PADARIA ESTRELA", "13.00", oct, nil),
	}

	res := Filter(cands, existing, DefaultPolicy(day(2025, time.October, 1)))

	require.Len(t, res.Duplicates, 2)
	require.Len(t, res.Accepted, 1)
	// Case and spacing differences do not split identities.
	assert.Equal(t, "identical transaction already exists", res.Duplicates[1].Reason)
	assert.Equal(t, StatusDuplicate, res.Duplicates[0].Status)
	assert.True(t, decimal.RequireFromString("13.00").Equal(res.Accepted[0].Amount))

	assert.Equal(t, 3, res.Stats.TotalAnalyzed)
	assert.Equal(t, 1, res.Stats.ToImport)
	assert.Equal(t, 2, res.Stats.Duplicates)
	assert.Equal(t, 0, res.Stats.Warnings)
}

func TestFilter_ExactDuplicateAllowedByPolicy(t *testing.T) {
	oct := day(2025, time.October, 15)
	existing := []models.PersistedTransaction{
		persisted("PADARIA ESTRELA", "12.50", oct, nil),
	}
	cands := []models.ExtractedTransaction{
		candidate("PADARIA ESTRELA", "12.50", oct, nil),
	}

	policy := DefaultPolicy(day(2025, time.October, 1))
	policy.AllowExactDuplicates = true
	res := Filter(cands, existing, policy)

	require.Len(t, res.Accepted, 1)
	require.Len(t, res.Warnings, 1)
	assert.Empty(t, res.Duplicates)
	assert.Equal(t, StatusWarning, res.Warnings[0].Status)
	assert.Equal(t, "duplicate allowed by policy", res.Warnings[0].Reason)
}

func TestFilter_SameParcelAlreadyExists(t *testing.T) {
	existing := []models.PersistedTransaction{
		persisted("SHEIN", "150.50", day(2025, time.September, 15),
			&models.Installment{Current: 2, Total: 5}),
	}
	cands := []models.ExtractedTransaction{
		// Same parcel surfacing again on the next statement.
		candidate("SHEIN", "150.50", day(2025, time.October, 15),
			&models.Installment{Current: 2, Total: 5}),
	}

	res := Filter(cands, existing, DefaultPolicy(day(2025, time.October, 1)))

	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "parcel 2/5 already exists", res.Duplicates[0].Reason)
	assert.Empty(t, res.Accepted)
}

func TestFilter_NextParcelOfKnownGroupImports(t *testing.T) {
	existing := []models.PersistedTransaction{
		persisted("SHEIN", "150.50", day(2025, time.September, 15),
			&models.Installment{Current: 1, Total: 5}),
	}
	cands := []models.ExtractedTransaction{
		candidate("SHEIN", "150.50", day(2025, time.October, 15),
			&models.Installment{Current: 2, Total: 5}),
	}

	res := Filter(cands, existing, DefaultPolicy(day(2025, time.October, 1)))

	require.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Duplicates)
}

func TestFilter_ParcelOutsideStatementMonth(t *testing.T) {
	existing := []models.PersistedTransaction{
		persisted("SHEIN", "150.50", day(2025, time.September, 15),
			&models.Installment{Current: 1, Total: 5}),
	}
	cands := []models.ExtractedTransaction{
		// A parcel dated two months ahead of the statement being imported.
		candidate("SHEIN", "150.50", day(2025, time.December, 15),
			&models.Installment{Current: 4, Total: 5}),
	}

	policy := DefaultPolicy(day(2025, time.October, 1))
	res := Filter(cands, existing, policy)
	require.Len(t, res.Duplicates, 1)
	assert.Equal(t, "parcel dated 2025-12 outside statement month 2025-10", res.Duplicates[0].Reason)

	// Relaxing the policy lets future parcels through.
	policy.OnlyCurrentInstallment = false
	res = Filter(cands, existing, policy)
	require.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Duplicates)
}

func TestFilter_UnknownGroupImports(t *testing.T) {
	cands := []models.ExtractedTransaction{
		candidate("SHEIN", "150.50", day(2025, time.October, 15),
			&models.Installment{Current: 1, Total: 5}),
	}

	res := Filter(cands, nil, DefaultPolicy(day(2025, time.October, 1)))
	require.Len(t, res.Accepted, 1)
	assert.Empty(t, res.Duplicates)
	assert.Empty(t, res.Warnings)
}

func TestFilter_AmbiguousInstallmentNeverGroups(t *testing.T) {
	existing := []models.PersistedTransaction{
		persisted("SHEIN", "150.50", day(2025, time.September, 15),
			&models.Installment{Current: 2, Total: 5}),
	}
	cands := []models.ExtractedTransaction{
		// Unresolved total: no group id, falls back to fingerprinting only.
		candidate("SHEIN", "150.50", day(2025, time.October, 15),
			&models.Installment{Current: 2, Ambiguous: true}),
	}

	res := Filter(cands, existing, DefaultPolicy(day(2025, time.October, 1)))
	require.Len(t, res.Accepted, 1)
}

func TestFilter_Idempotent(t *testing.T) {
	oct := day(2025, time.October, 15)
	cands := []models.ExtractedTransaction{
		candidate("PADARIA ESTRELA", "12.50", oct, nil),
		candidate("SHEIN", "150.50", oct, &models.Installment{Current: 1, Total: 5}),
	}

	policy := DefaultPolicy(day(2025, time.October, 1))
	first := Filter(cands, nil, policy)
	require.Len(t, first.Accepted, 2)

	// Persist the first run's output, then re-run the same batch.
	var existing []models.PersistedTransaction
	for i, tx := range first.Accepted {
		p := persisted(tx.Description, tx.Amount.String(), tx.Date, tx.Installment)
		p.ID = p.ID + string(rune('0'+i))
		existing = append(existing, p)
	}

	second := Filter(cands, existing, policy)
	assert.Empty(t, second.Accepted)
	assert.Len(t, second.Duplicates, 2)
}

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("Padaria Estrela", decimal.RequireFromString("12.5"),
		day(2025, time.October, 15), models.KindDebit)
	b := Fingerprint("padaria  ESTRELA", decimal.RequireFromString("12.50"),
		day(2025, time.October, 15), models.KindDebit)
	c := Fingerprint("padaria estrela", decimal.RequireFromString("12.50"),
		day(2025, time.October, 15), models.KindCredit)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, len(a) > 4 && a[:4] == "txn_")
}

func TestGroupID_SharedAcrossParcels(t *testing.T) {
	amount := decimal.RequireFromString("150.50")
	g1 := GroupID("shein", amount, 5)
	g2 := GroupID("  SHEIN ", decimal.RequireFromString("150.5"), 5)
	g3 := GroupID("shein", amount, 6)

	assert.Equal(t, g1, g2)
	assert.NotEqual(t, g1, g3)
	assert.True(t, len(g1) > 4 && g1[:4] == "grp_")
}
