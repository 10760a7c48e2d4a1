// Package parser turns statement text into transaction candidates. One
// parser per institution, held in a fixed priority order, plus a generic
// fallback that claims any document.
package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/faturaflow/statement-import/internal/installment"
	"github.com/faturaflow/statement-import/internal/models"
)

// ErrUnsupportedFormat means no strategy, including the generic fallback,
// extracted a single transaction from the document.
var ErrUnsupportedFormat = errors.New("document format not recognized")

// ParseOptions carries per-run knobs into a parser.
type ParseOptions struct {
	// ReferenceMonth is the statement's billing month when the caller knows
	// it. It anchors year resolution of dd/MM tokens when the document has
	// no due-date header; the statement's own ReferenceMonth comes from the
	// parsed transaction dates.
	ReferenceMonth time.Time
	// Resolver handles installment extraction. Nil means tuned defaults.
	Resolver *installment.Resolver
}

func (o ParseOptions) resolver() *installment.Resolver {
	if o.Resolver != nil {
		return o.Resolver
	}
	return installment.NewDefault()
}

// StatementParser is the capability set every institution format implements.
type StatementParser interface {
	// Issuer returns the institution this parser understands.
	Issuer() models.Issuer
	// CanParse is the detection predicate: a pure function over the text.
	CanParse(text string) bool
	// Parse extracts transaction candidates. Malformed lines become
	// diagnostics, never errors.
	Parse(text string, opts ParseOptions) (*models.Statement, error)
}

// Registry holds statement parsers in priority order, most distinctive
// format first and the generic fallback last. Dispatch order is a data
// value, not registration order.
type Registry struct {
	parsers []StatementParser
}

// NewRegistry creates a registry with an explicit parser order.
func NewRegistry(parsers ...StatementParser) *Registry {
	return &Registry{parsers: parsers}
}

// Default returns the registry with all built-in parsers.
func Default() *Registry {
	return NewRegistry(
		&PicPayParser{},
		&NubankParser{},
		&ItauParser{},
		&BradescoParser{},
		&GenericParser{},
	)
}

// Detect returns the first parser whose detection predicate accepts the
// text. The generic fallback claims everything, so this never returns nil
// for a registry that includes it.
func (r *Registry) Detect(text string) StatementParser {
	for _, p := range r.parsers {
		if p.CanParse(text) {
			return p
		}
	}
	return nil
}

// ParseDocument dispatches the text to the detected parser. A panicking
// parser is treated as "could not extract anything" rather than aborting
// the run; when a specific parser yields zero transactions the generic
// fallback gets a try before the document is declared unsupported.
func (r *Registry) ParseDocument(text string, opts ParseOptions) (*models.Statement, error) {
	if text == "" {
		return nil, ErrUnsupportedFormat
	}

	p := r.Detect(text)
	if p == nil {
		return nil, ErrUnsupportedFormat
	}

	stmt := r.safeParse(p, text, opts)
	stmt.Diagnostics = append(stmt.Diagnostics, models.Diagnostic{
		Event:  models.EventDetection,
		Reason: fmt.Sprintf("selected %s parser", p.Issuer()),
	})

	if len(stmt.Transactions) == 0 && p.Issuer() != models.IssuerGeneric {
		fallback := r.find(models.IssuerGeneric)
		if fallback != nil {
			retry := r.safeParse(fallback, text, opts)
			retry.Diagnostics = append(stmt.Diagnostics, retry.Diagnostics...)
			retry.Diagnostics = append(retry.Diagnostics, models.Diagnostic{
				Event:  models.EventDetection,
				Reason: fmt.Sprintf("%s parser found nothing, retried with generic", p.Issuer()),
			})
			stmt = retry
		}
	}

	if len(stmt.Transactions) == 0 {
		return nil, ErrUnsupportedFormat
	}
	return stmt, nil
}

func (r *Registry) find(issuer models.Issuer) StatementParser {
	for _, p := range r.parsers {
		if p.Issuer() == issuer {
			return p
		}
	}
	return nil
}

// safeParse shields the dispatcher from a misbehaving parser.
func (r *Registry) safeParse(p StatementParser, text string, opts ParseOptions) (stmt *models.Statement) {
	defer func() {
		if rec := recover(); rec != nil {
			stmt = &models.Statement{
				Issuer: p.Issuer(),
				Diagnostics: []models.Diagnostic{{
					Event:  models.EventParserPanic,
					Reason: fmt.Sprintf("%s parser panicked: %v", p.Issuer(), rec),
				}},
			}
		}
	}()

	parsed, err := p.Parse(text, opts)
	if err != nil || parsed == nil {
		reason := "parser returned no statement"
		if err != nil {
			reason = err.Error()
		}
		return &models.Statement{
			Issuer: p.Issuer(),
			Diagnostics: []models.Diagnostic{{
				Event:  models.EventLineSkipped,
				Reason: reason,
			}},
		}
	}
	return parsed
}

// referenceMonth resolves which billing month a statement covers: the
// document's own due-date header, then the caller-provided month, then the
// current system date.
func referenceMonth(text string, opts ParseOptions) time.Time {
	if due, ok := findDueDate(text); ok {
		return due
	}
	if !opts.ReferenceMonth.IsZero() {
		return opts.ReferenceMonth
	}
	return time.Now().UTC()
}
