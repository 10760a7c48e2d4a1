package parser

import (
	"github.com/faturaflow/statement-import/internal/models"
)

// ItauParser handles Itaú card statement text (Itaucard / Credicard
// layouts).
//
// Itaú statements repeat a "lançamentos" table per card, interleaved with
// totals and limit blocks, so the noise denylist is longer than for the
// other issuers:
//
//	12/10 DROGARIA SP PACAEMBU 34,90
//	03/10 MAGAZINELUIZA PARC 02/10 119,90
//
// PicPay statements mention Itaú in their footer, so PicPay markers exclude
// this parser.
type ItauParser struct{}

func (p *ItauParser) Issuer() models.Issuer { return models.IssuerItau }

func (p *ItauParser) CanParse(text string) bool {
	if containsAny(text, []string{"picpay"}) {
		return false
	}
	return containsAny(text, []string{"itaú", "itau", "itaucard", "credicard"})
}

var itauNoise = []string{
	"total nacional",
	"total internacional",
	"total dos lançamentos",
	"saldo anterior",
	"saldo atual",
	"limite de crédito",
	"limite total",
	"encargos",
	"juros",
	"anuidade diferenciada",
	"data lançamento",
	"lançamentos:",
	"pagamento mínimo",
	"página",
	"central de atendimento",
	"sac ",
}

func (p *ItauParser) Parse(text string, opts ParseOptions) (*models.Statement, error) {
	rules := lineRules{
		issuer:       models.IssuerItau,
		sectionHints: []string{"lançamentos", "lancamentos", "compras e saques"},
		noise:        itauNoise,
		creditHints:  []string{"pagamento efetuado", "pagamento de fatura", "estorno", "credito de"},
	}
	return rules.walk(text, opts), nil
}
