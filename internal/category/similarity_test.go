package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"exact", "uber trip", "uber trip", 1.0},
		{"containment", "uber trip sp", "uber trip", 0.8},
		{"shared tokens", "supermercado extra centro", "supermercado carrefour centro", 0.6 + 0.2*2.0/3.0},
		{"different first token", "farmacia pague menos", "drogaria pague menos", 0.6 + 0.2*2.0/3.0},
		{"nothing shared", "uber trip", "netflix assinatura", 0},
		{"stopwords only", "de da do", "loja abc", 0},
		{"empty input", "", "uber", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSignificantTokens(t *testing.T) {
	got := significantTokens("compra de 123 na loja abc ltda")
	assert.Equal(t, []string{"compra", "loja", "abc"}, got)
}
