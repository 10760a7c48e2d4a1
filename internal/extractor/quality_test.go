package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextQuality(t *testing.T) {
	assert.Equal(t, 0.0, textQuality(nil))
	assert.Equal(t, 1.0, textQuality([]string{"fatura do cartão, vencimento 10/11"}))
	assert.Less(t, textQuality([]string{"⌘␀☃☠⚡❤"}), 0.2)
}

func TestIsReadableText(t *testing.T) {
	good := []string{
		"FATURA PICPAY",
		"Vencimento: 10/11/2025",
		"07/10 PAGAMENTO DE FATURA PELO PICPA -2.377,77",
	}
	assert.True(t, isReadableText(good))

	// Too short, even though every character is readable.
	assert.False(t, isReadableText([]string{"fatura"}))

	// Long and clean but without a single statement word: likely the wrong
	// kind of document.
	prose := []string{strings.Repeat("lorem ipsum dolor sit amet ", 5)}
	assert.False(t, isReadableText(prose))

	// Garbage from an identity-encoded font.
	soup := []string{strings.Repeat("⌘␀☃", 30)}
	assert.False(t, isReadableText(soup))
}
