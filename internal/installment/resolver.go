// Package installment extracts "current/total" parcel markers from
// statement descriptions and recovers totals that the upstream text
// extraction swallowed.
package installment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/faturaflow/statement-import/internal/models"
)

// Config holds the recovery heuristic's policy constants. They are
// empirically tuned for a known text-extraction defect, not invariants;
// callers may override any of them.
type Config struct {
	// SuspiciousAmount is the floor above which an amount is eligible for
	// leading-digit correction.
	SuspiciousAmount decimal.Decimal
	// MinCorrectionDelta is the minimum difference between the original and
	// corrected amounts for a correction to be accepted.
	MinCorrectionDelta decimal.Decimal
	// MaxRecoveredTotal caps any recovered installment total.
	MaxRecoveredTotal uint
	// MaxCorrectedAmount caps the amount that remains after stripping the
	// recovered total's digits.
	MaxCorrectedAmount decimal.Decimal
	// LookaheadLines is how many following lines are scanned for an
	// isolated total.
	LookaheadLines int
}

// DefaultConfig returns the tuned defaults (200, 50, 99, 500, 3).
func DefaultConfig() Config {
	return Config{
		SuspiciousAmount:   decimal.NewFromInt(200),
		MinCorrectionDelta: decimal.NewFromInt(50),
		MaxRecoveredTotal:  99,
		MaxCorrectedAmount: decimal.NewFromInt(500),
		LookaheadLines:     3,
	}
}

// Resolution is the outcome of resolving one description.
type Resolution struct {
	// Installment is nil for non-installment purchases. Ambiguous is set
	// when the total could not be recovered.
	Installment *models.Installment
	// Amount is the (possibly corrected) amount.
	Amount decimal.Decimal
	// AmountCorrected reports that the leading-digit heuristic fired.
	AmountCorrected bool
	// Note is a human-readable trace of what happened, empty when nothing
	// noteworthy did.
	Note string
}

// Resolver extracts installment markers from descriptions.
type Resolver struct {
	cfg Config
}

// New creates a Resolver with the given config.
func New(cfg Config) *Resolver {
	if cfg.LookaheadLines == 0 {
		cfg.LookaheadLines = DefaultConfig().LookaheadLines
	}
	return &Resolver{cfg: cfg}
}

// NewDefault creates a Resolver with the tuned defaults.
func NewDefault() *Resolver {
	return New(DefaultConfig())
}

// Marker patterns, most specific first. The explicit PARCELA/PARC tokens
// allow a lost (empty or zero) total; the bare N/M suffix does not, so a
// date fragment cannot sneak in through it.
var (
	parcelaPattern = regexp.MustCompile(`(?i)\bPARCELA\s*(\d{1,3})\s*(?:DE|/)\s*(\d{0,3})`)
	parcPattern    = regexp.MustCompile(`(?i)\bPARC\.?\s*(\d{1,3})\s*/\s*(\d{0,3})`)
	bareSuffix     = regexp.MustCompile(`(?:^|\s)(\d{1,2})/(\d{1,2})$`)

	isolatedNumber = regexp.MustCompile(`(?:^|\s)(\d{1,2})(?:\s|$)`)
)

// Resolve extracts the installment marker from desc. The amount is the
// transaction's parsed amount; context carries the raw statement lines at
// and after the transaction line, used for lost-digit recovery.
func (r *Resolver) Resolve(desc string, amount decimal.Decimal, context []string) Resolution {
	current, total, matched := extractMarker(desc)
	if !matched {
		return Resolution{Amount: amount}
	}

	if current < 1 || current > models.MaxInstallmentTotal {
		return Resolution{Amount: amount}
	}

	if total >= current && total <= models.MaxInstallmentTotal {
		return Resolution{
			Installment: &models.Installment{Current: current, Total: total},
			Amount:      amount,
		}
	}

	// The total digit was lost. Recovery, in strict order: a nearby
	// isolated number, then the amount's own leading digits.
	if recovered, ok := r.recoverFromContext(current, context); ok {
		return Resolution{
			Installment: &models.Installment{Current: current, Total: recovered},
			Amount:      amount,
			Note:        "installment total recovered from adjacent line",
		}
	}

	if recovered, corrected, ok := r.recoverFromAmount(current, amount); ok {
		return Resolution{
			Installment:     &models.Installment{Current: current, Total: recovered},
			Amount:          corrected,
			AmountCorrected: true,
			Note:            "installment total recovered from amount leading digits",
		}
	}

	return Resolution{
		Installment: &models.Installment{Current: current, Ambiguous: true},
		Amount:      amount,
		Note:        "installment total unresolved",
	}
}

// extractMarker runs the pattern cascade over desc.
func extractMarker(desc string) (current, total uint, ok bool) {
	for _, pat := range []*regexp.Regexp{parcelaPattern, parcPattern} {
		if m := pat.FindStringSubmatch(desc); m != nil {
			cur, _ := strconv.Atoi(m[1])
			tot := 0
			if m[2] != "" {
				tot, _ = strconv.Atoi(m[2])
			}
			return uint(cur), uint(tot), true
		}
	}

	// Bare N/M suffix: only as the final token, only when it reads as a
	// plausible parcel position rather than a day/month pair.
	if m := bareSuffix.FindStringSubmatch(strings.TrimSpace(desc)); m != nil {
		cur, _ := strconv.Atoi(m[1])
		tot, _ := strconv.Atoi(m[2])
		if cur >= 1 && cur <= tot {
			return uint(cur), uint(tot), true
		}
	}

	return 0, 0, false
}

// recoverFromContext scans the transaction's own line and the next few for
// an isolated 1-2 digit number that can serve as the lost total.
func (r *Resolver) recoverFromContext(current uint, context []string) (uint, bool) {
	limit := r.cfg.LookaheadLines + 1
	if len(context) < limit {
		limit = len(context)
	}
	for i := 0; i < limit; i++ {
		for _, m := range isolatedNumber.FindAllStringSubmatch(context[i], -1) {
			n, _ := strconv.Atoi(m[1])
			if uint(n) >= current && uint(n) <= r.cfg.MaxRecoveredTotal {
				return uint(n), true
			}
		}
	}
	return 0, false
}

// recoverFromAmount tests whether the amount's leading one or two digits are
// the lost total. The amount is only touched when every bound holds: the
// candidate total covers the current parcel, the stripped remainder is
// smaller than the original by more than MinCorrectionDelta, and the
// remainder stays below MaxCorrectedAmount.
func (r *Resolver) recoverFromAmount(current uint, amount decimal.Decimal) (total uint, corrected decimal.Decimal, ok bool) {
	if !amount.GreaterThan(r.cfg.SuspiciousAmount) {
		return 0, decimal.Zero, false
	}

	fixed := amount.StringFixed(2)
	intPart := fixed[:len(fixed)-3]
	if len(intPart) < 3 {
		return 0, decimal.Zero, false
	}

	for _, lead := range []int{1, 2} {
		if lead >= len(intPart) {
			break
		}
		cand, _ := strconv.Atoi(intPart[:lead])
		if cand == 0 || uint(cand) < current || uint(cand) > r.cfg.MaxRecoveredTotal {
			continue
		}

		rest := strings.TrimLeft(intPart[lead:], "0")
		if rest == "" {
			rest = "0"
		}
		remainder, err := decimal.NewFromString(rest + fixed[len(fixed)-3:])
		if err != nil {
			continue
		}
		if !remainder.IsPositive() || !remainder.LessThan(amount) {
			continue
		}
		if !amount.Sub(remainder).GreaterThan(r.cfg.MinCorrectionDelta) {
			continue
		}
		if !remainder.LessThan(r.cfg.MaxCorrectedAmount) {
			continue
		}
		return uint(cand), remainder, true
	}

	return 0, decimal.Zero, false
}
