package parser

import (
	"strings"
	"time"

	"github.com/faturaflow/statement-import/internal/models"
	"github.com/faturaflow/statement-import/internal/normalizer"
)

// lineRules captures what varies between institution layouts: where the
// transaction section begins, which lines are header/footer noise, and
// which descriptions are credits even without a minus sign.
type lineRules struct {
	issuer models.Issuer
	// sectionHints are substrings marking the start of the transaction
	// table. Fallback: the first line with a leading date token.
	sectionHints []string
	// noise is the denylist of substrings for header/footer/total lines.
	noise []string
	// creditHints force a credit kind for matching descriptions (payments
	// and refunds some layouts print unsigned).
	creditHints []string
}

// walk runs the shared line scan over the document under these rules.
func (lr lineRules) walk(text string, opts ParseOptions) *models.Statement {
	ref := referenceMonth(text, opts)
	resolver := opts.resolver()

	stmt := &models.Statement{
		Issuer:         lr.issuer,
		ReferenceMonth: ref,
	}

	lines := strings.Split(text, "\n")
	inSection := len(lr.sectionHints) == 0

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !inSection {
			if containsAny(line, lr.sectionHints) || startsWithDate(line) {
				inSection = true
			}
			if !startsWithDate(line) {
				continue
			}
		}

		if containsAny(line, lr.noise) {
			stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
				Line:   i + 1,
				Text:   line,
				Event:  models.EventNoiseLine,
				Reason: "header/footer line",
			})
			continue
		}

		day, month, year, rest, ok := splitDateLine(line)
		if !ok {
			continue
		}

		amountStr, desc, ok := trailingAmount(rest)
		if !ok {
			stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
				Line:   i + 1,
				Text:   line,
				Event:  models.EventLineSkipped,
				Reason: "no trailing amount",
			})
			continue
		}

		amount, kind, err := ParseAmount(amountStr)
		if err != nil {
			stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
				Line:   i + 1,
				Text:   line,
				Event:  models.EventAmountUnparsable,
				Reason: err.Error(),
			})
			continue
		}

		res := resolver.Resolve(desc, amount, lines[i:])
		if res.Installment != nil && res.Installment.Ambiguous {
			stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
				Line:   i + 1,
				Text:   line,
				Event:  models.EventAmbiguousInstallment,
				Reason: res.Note,
			})
		}

		if kind == models.KindDebit && containsAny(desc, lr.creditHints) {
			kind = models.KindCredit
		}

		date := resolveDate(day, month, year, ref)
		if year != 0 && !dateWithinYear(date, ref) {
			stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
				Line:   i + 1,
				Text:   line,
				Event:  models.EventLineSkipped,
				Reason: "date too far from statement period",
			})
			continue
		}

		tx := models.ExtractedTransaction{
			Date:        date,
			Description: desc,
			Amount:      res.Amount,
			Kind:        kind,
			Installment: res.Installment,
		}
		if !normalizer.Normalize(&tx) {
			stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
				Line:   i + 1,
				Text:   line,
				Event:  models.EventLineSkipped,
				Reason: "description too short after cleanup",
			})
			continue
		}

		stmt.Transactions = append(stmt.Transactions, tx)
	}

	stmt.ReferenceMonth = billingMonth(stmt.Transactions, ref)
	return stmt
}

// billingMonth derives which month a statement bills from its own
// transaction dates: the most frequent month wins, the latest on a tie. The
// due-date header falls in the month after the purchases it bills, so it
// only anchors year resolution and the fallback.
func billingMonth(txns []models.ExtractedTransaction, fallback time.Time) time.Time {
	counts := make(map[time.Time]int)
	for _, tx := range txns {
		key := time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[key]++
	}

	var best time.Time
	for month, n := range counts {
		if n > counts[best] || (n == counts[best] && month.After(best)) {
			best = month
		}
	}
	if best.IsZero() {
		return fallback
	}
	return best
}

// dateWithinYear clamps obviously wrong resolved dates; a candidate more
// than a year away from the reference month means the year heuristic fired
// on garbage data and the line is suspect.
func dateWithinYear(d, ref time.Time) bool {
	diff := d.Sub(ref)
	if diff < 0 {
		diff = -diff
	}
	return diff <= 366*24*time.Hour
}
