package parser

import (
	"github.com/faturaflow/statement-import/internal/models"
)

// BradescoParser handles Bradesco card statement text.
//
// Bradesco statements use DD/MM dates and mark installments either as
// "PARC 02/04" or with a bare "02/04" suffix:
//
//	08/10 LOJAS RENNER PARC 02/04 75,25
//	10/10 POSTO SHELL 02/03 210,00
type BradescoParser struct{}

func (p *BradescoParser) Issuer() models.Issuer { return models.IssuerBradesco }

func (p *BradescoParser) CanParse(text string) bool {
	if containsAny(text, []string{"picpay", "nubank"}) {
		return false
	}
	return containsAny(text, []string{"bradesco", "bradescard"})
}

var bradescoNoise = []string{
	"total da fatura",
	"saldo anterior",
	"limite de crédito",
	"limite de credito",
	"histórico",
	"historico",
	"data histórico",
	"pagamento mínimo",
	"demonstrativo",
	"página",
}

func (p *BradescoParser) Parse(text string, opts ParseOptions) (*models.Statement, error) {
	rules := lineRules{
		issuer:       models.IssuerBradesco,
		sectionHints: []string{"histórico", "historico", "lançamentos", "lancamentos"},
		noise:        bradescoNoise,
		creditHints:  []string{"pagto", "pagamento", "estorno"},
	}
	return rules.walk(text, opts), nil
}
