package extractor

import (
	"strings"
	"unicode"
)

// commonWords appear in virtually every Brazilian card statement. Extracted
// text containing none of them is almost certainly garbage from an
// identity-encoded font.
var commonWords = []string{
	"fatura", "cartão", "cartao", "vencimento", "total", "limite",
	"pagamento", "lançamentos", "lancamentos", "parcela", "compras",
	"saldo", "data", "valor",
}

// textQuality returns the ratio of readable characters to total characters.
// Accented Latin letters are counted: Portuguese statements are full of
// them and they come out of a correct extraction, unlike the arbitrary
// Unicode soup a broken font mapping produces.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
				readable++
			case unicode.IsSpace(r):
				readable++
			case strings.ContainsRune(".,-/:;()'\"$%&@#!?+=*", r):
				readable++
			case strings.ContainsRune("áàâãéêíóôõúüçÁÀÂÃÉÊÍÓÔÕÚÜÇ", r):
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(p)
	}
	return n
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// isReadableText requires enough text, a high readable-character ratio, and
// at least one recognizable statement word.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}
