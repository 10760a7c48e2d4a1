// Package normalizer turns raw extraction output into canonical
// transaction records.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/faturaflow/statement-import/internal/models"
)

// MinDescriptionLength is the shortest cleaned description accepted. Shorter
// ones are almost certainly parsing artifacts, not real transactions.
const MinDescriptionLength = 3

var (
	markerPattern     = regexp.MustCompile(`(?i)\bPARC(?:ELA)?\.?\s*\d{1,3}\s*(?:DE|/)\s*\d{0,3}\b`)
	bareSuffixPattern = regexp.MustCompile(`\s\d{1,2}/\d{1,2}$`)
	whitespacePattern = regexp.MustCompile(`\s{2,}`)
)

// Institution noise tokens that leak into descriptions.
var noiseTokens = []string{
	"COMPRA A VISTA",
	"COMPRA PARCELADA",
	"CARTAO FINAL",
	"CARTÃO FINAL",
	"*",
}

// Clean strips installment markers and institution noise from a raw
// description and collapses whitespace.
func Clean(desc string) string {
	desc = markerPattern.ReplaceAllString(desc, " ")
	desc = bareSuffixPattern.ReplaceAllString(desc, "")
	for _, tok := range noiseTokens {
		desc = replaceFold(desc, tok)
	}
	desc = whitespacePattern.ReplaceAllString(desc, " ")
	return strings.TrimSpace(desc)
}

// BaseKey lowers and cleans a description for identity derivation. All
// parcels of one purchase share the same base key.
func BaseKey(desc string) string {
	return strings.ToLower(Clean(desc))
}

// Normalize cleans a candidate's description in place. It reports false
// when the cleaned description is too short to be a real transaction and
// the candidate should be skipped.
func Normalize(tx *models.ExtractedTransaction) bool {
	tx.Description = Clean(tx.Description)
	return len([]rune(tx.Description)) >= MinDescriptionLength
}

// replaceFold removes every case-insensitive occurrence of token.
func replaceFold(s, token string) string {
	lower := strings.ToLower(s)
	lowerTok := strings.ToLower(token)
	for {
		idx := strings.Index(lower, lowerTok)
		if idx < 0 {
			return s
		}
		s = s[:idx] + " " + s[idx+len(token):]
		lower = lower[:idx] + " " + lower[idx+len(token):]
	}
}
