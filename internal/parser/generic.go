package parser

import (
	"github.com/faturaflow/statement-import/internal/models"
)

// GenericParser is the line-oriented fallback used when no institution
// format matched. It accepts any line with a leading date token and a
// trailing amount, with no section detection and only a minimal noise
// denylist, so it trades precision for coverage. It sits last in the
// registry and its detection predicate claims every document.
type GenericParser struct{}

func (p *GenericParser) Issuer() models.Issuer { return models.IssuerGeneric }

// CanParse always claims the document; priority order in the registry keeps
// it from shadowing the institution parsers.
func (p *GenericParser) CanParse(text string) bool { return true }

var genericNoise = []string{
	"total",
	"saldo",
	"limite",
	"página",
	"pagina",
}

func (p *GenericParser) Parse(text string, opts ParseOptions) (*models.Statement, error) {
	rules := lineRules{
		issuer:      models.IssuerGeneric,
		noise:       genericNoise,
		creditHints: []string{"pagamento", "estorno"},
	}
	return rules.walk(text, opts), nil
}
