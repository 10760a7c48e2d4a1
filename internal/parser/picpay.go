package parser

import (
	"github.com/faturaflow/statement-import/internal/models"
)

// PicPayParser handles PicPay card statement text.
//
// PicPay statements list one transaction per line after the "Movimentações"
// header:
//
//	07/10 PAGAMENTO DE FATURA PELO PICPA -2.377,77
//	15/10 SHEIN PARC01/05 150,50
//
// Dates are DD/MM with no year; the year comes from the "Vencimento" header.
// Payment lines are negative. The upstream text extraction is known to
// truncate trailing characters ("PICPA") and to swallow the last digit of
// installment totals, which the installment resolver compensates for.
type PicPayParser struct{}

func (p *PicPayParser) Issuer() models.Issuer { return models.IssuerPicPay }

// CanParse detects the PicPay layout. The truncated "PICPA" marker counts:
// losing the final "Y" is the extractor defect this parser exists for.
func (p *PicPayParser) CanParse(text string) bool {
	return containsAny(text, []string{"picpay", "picpa "}) ||
		containsAny(text, []string{"pagamento de fatura pelo picpa"})
}

var picpayNoise = []string{
	"total da fatura",
	"total desta fatura",
	"limite de crédito",
	"limite disponivel",
	"limite disponível",
	"movimentações",
	"lançamentos",
	"data descrição",
	"pagamento mínimo",
	"página",
}

func (p *PicPayParser) Parse(text string, opts ParseOptions) (*models.Statement, error) {
	rules := lineRules{
		issuer:       models.IssuerPicPay,
		sectionHints: []string{"movimentações", "movimentacoes", "lançamentos", "lancamentos"},
		noise:        picpayNoise,
		creditHints:  []string{"pagamento de fatura", "estorno"},
	}
	return rules.walk(text, opts), nil
}
