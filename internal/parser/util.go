package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/faturaflow/statement-import/internal/models"
)

// Common date patterns found in Brazilian card statements.
var (
	// DD/MM or DD/MM/YYYY at the start of a line
	datePatternSlash = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)
	// DD MMM with Portuguese month abbreviations (e.g. "15 OUT")
	datePatternText = regexp.MustCompile(`(?i)^(\d{1,2})\s+(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)\b`)
	// Full DD/MM/YYYY anywhere, used for due-date headers
	dateFullPattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	// Brazilian decimal amount, optionally signed and R$-prefixed
	amountPattern = regexp.MustCompile(`-?\s*(?:R\$\s*)?\d{1,3}(?:\.\d{3})*,\d{2}\b|-?\s*(?:R\$\s*)?\d+,\d{2}\b`)
)

var ptMonths = map[string]time.Month{
	"JAN": time.January, "FEV": time.February, "MAR": time.March,
	"ABR": time.April, "MAI": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "SET": time.September,
	"OUT": time.October, "NOV": time.November, "DEZ": time.December,
}

// ParseAmount converts a Brazilian-notation amount string like "1.234,56",
// "R$ 150,50" or "-2.377,77" into a non-negative decimal plus the
// transaction kind. A leading minus sign denotes a credit (payment/refund);
// the magnitude is what gets stored.
func ParseAmount(s string) (decimal.Decimal, models.TransactionKind, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	kind := models.KindDebit
	if strings.HasPrefix(s, "-") {
		kind = models.KindCredit
		s = s[1:]
	}

	if strings.Contains(s, ",") {
		// Dots are thousands separators, comma is the decimal mark.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	if s == "" {
		return decimal.Zero, kind, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, kind, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	if d.IsNegative() {
		kind = models.KindCredit
		d = d.Abs()
	}
	return d, kind, nil
}

// FormatAmount renders a decimal back into Brazilian notation ("1.234,56").
// Inverse of ParseAmount for the supported notation.
func FormatAmount(d decimal.Decimal) string {
	neg := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := strings.Join(groups, ".") + "," + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// startsWithDate checks whether a line begins with a transaction date token.
func startsWithDate(line string) bool {
	line = strings.TrimSpace(line)
	return datePatternSlash.MatchString(line) || datePatternText.MatchString(line)
}

// splitDateLine splits a transaction line into its leading date token's
// day/month/year and the remainder of the line. Year is zero when the
// statement omits it. Returns ok=false when the line has no date token.
func splitDateLine(line string) (day, month, year int, rest string, ok bool) {
	line = strings.TrimSpace(line)

	if m := datePatternSlash.FindStringSubmatch(line); m != nil {
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
			if year < 100 {
				year += 2000
			}
		}
		rest = strings.TrimSpace(line[len(m[0]):])
		return day, month, year, rest, validDayMonth(day, month)
	}

	if m := datePatternText.FindStringSubmatch(line); m != nil {
		day, _ = strconv.Atoi(m[1])
		mon, found := ptMonths[strings.ToUpper(m[2])]
		if !found {
			return 0, 0, 0, "", false
		}
		rest = strings.TrimSpace(line[len(m[0]):])
		return day, int(mon), 0, rest, validDayMonth(day, int(mon))
	}

	return 0, 0, 0, "", false
}

func validDayMonth(day, month int) bool {
	return day >= 1 && day <= 31 && month >= 1 && month <= 12
}

// resolveDate builds a full calendar date for a day/month token using the
// statement's reference month for the year. A token month later than the
// reference month belongs to the previous year (statements list the prior
// billing cycle's purchases).
func resolveDate(day, month, year int, reference time.Time) time.Time {
	if year == 0 {
		year = reference.Year()
		if month > int(reference.Month()) {
			year--
		}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// findDueDate scans the document for a due-date or billing-period header
// ("Vencimento: 15/11/2026") and returns the month it names.
func findDueDate(text string) (time.Time, bool) {
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "vencimento") &&
			!strings.Contains(lower, "data de fechamento") &&
			!strings.Contains(lower, "período") &&
			!strings.Contains(lower, "periodo") {
			continue
		}
		if m := dateFullPattern.FindStringSubmatch(line); m != nil {
			day, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if validDayMonth(day, month) {
				return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

// trailingAmount finds the last amount token on a line and returns it along
// with the line text preceding it.
func trailingAmount(line string) (amount string, before string, ok bool) {
	locs := amountPattern.FindAllStringIndex(line, -1)
	if len(locs) == 0 {
		return "", "", false
	}
	last := locs[len(locs)-1]
	// Only accept an amount that actually ends the line (modulo whitespace).
	if strings.TrimSpace(line[last[1]:]) != "" {
		return "", "", false
	}
	return strings.TrimSpace(line[last[0]:last[1]]), strings.TrimSpace(line[:last[0]]), true
}

// containsAny reports whether text contains any of the needles,
// case-insensitively.
func containsAny(text string, needles []string) bool {
	lower := strings.ToLower(text)
	for _, needle := range needles {
		if strings.Contains(lower, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}
