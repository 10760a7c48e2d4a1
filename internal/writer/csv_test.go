package writer

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faturaflow/statement-import/internal/dedup"
	"github.com/faturaflow/statement-import/internal/importer"
	"github.com/faturaflow/statement-import/internal/models"
)

func sampleResult() *importer.Result {
	return &importer.Result{
		RunID:          "run-1",
		Issuer:         models.IssuerPicPay,
		ReferenceMonth: time.Date(2025, time.November, 10, 0, 0, 0, 0, time.UTC),
		Accepted: []importer.CategorizedTransaction{
			{
				ExtractedTransaction: models.ExtractedTransaction{
					Date:        time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC),
					Description: "SHEIN",
					Amount:      decimal.RequireFromString("150.50"),
					Kind:        models.KindDebit,
					Installment: &models.Installment{Current: 1, Total: 5},
				},
				Category: models.CategoryMatch{CategoryName: "Vestuário", Confidence: 0.7},
			},
			{
				ExtractedTransaction: models.ExtractedTransaction{
					Date:        time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC),
					Description: "PAGAMENTO DE FATURA PELO PICPA",
					Amount:      decimal.RequireFromString("2377.77"),
					Kind:        models.KindCredit,
				},
			},
			{
				ExtractedTransaction: models.ExtractedTransaction{
					Date:        time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC),
					Description: "LOJA CENTRO",
					Amount:      decimal.RequireFromString("80.00"),
					Kind:        models.KindDebit,
					Installment: &models.Installment{Current: 3, Ambiguous: true},
				},
			},
		},
		Stats: dedup.Stats{TotalAnalyzed: 4, ToImport: 3, Duplicates: 1},
	}
}

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{}
	require.NoError(t, w.Write(&buf, sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Date", "Description", "Kind", "Amount", "Installment", "Category"}, records[0])
	assert.Equal(t, []string{"2025-10-15", "SHEIN", "DEBIT", "150,50", "1/5", "Vestuário"}, records[1])
	assert.Equal(t, []string{"2025-10-07", "PAGAMENTO DE FATURA PELO PICPA", "CREDIT", "2.377,77", "", ""}, records[2])
	// Unresolved totals render with a question mark.
	assert.Equal(t, "3/?", records[3][4])
}

func TestCSVWriter_WriteWithSummary(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeSummary: true}
	require.NoError(t, w.Write(&buf, sampleResult()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Issuer,picpay"))
	assert.Contains(t, out, "# Reference Month,2025-11")
	assert.Contains(t, out, "# To Import,3")
	assert.Contains(t, out, "# Duplicates,1")
}
