package parser

import (
	"github.com/faturaflow/statement-import/internal/models"
)

// NubankParser handles Nubank card statement text.
//
// Nubank statements use "DD MMM" dates with Portuguese month abbreviations
// and spell installments out as "Parcela N/M":
//
//	15 OUT Mercado Livre Parcela 2/6 89,90
//	20 OUT Pagamento recebido -1.200,00
//
// Some exports use DD/MM instead; both forms are accepted.
type NubankParser struct{}

func (p *NubankParser) Issuer() models.Issuer { return models.IssuerNubank }

func (p *NubankParser) CanParse(text string) bool {
	if containsAny(text, []string{"picpay"}) {
		return false
	}
	return containsAny(text, []string{"nubank", "nubank.com.br", "nu pagamentos"})
}

var nubankNoise = []string{
	"resumo da fatura",
	"valor total",
	"limite total",
	"pagamento mínimo",
	"transações",
	"data transação",
	"página",
}

func (p *NubankParser) Parse(text string, opts ParseOptions) (*models.Statement, error) {
	rules := lineRules{
		issuer:       models.IssuerNubank,
		sectionHints: []string{"transações", "transacoes", "lançamentos", "lancamentos"},
		noise:        nubankNoise,
		creditHints:  []string{"pagamento recebido", "estorno"},
	}
	return rules.walk(text, opts), nil
}
