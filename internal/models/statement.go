package models

import "time"

// Issuer identifies which institution's layout a statement uses.
type Issuer string

const (
	IssuerPicPay   Issuer = "picpay"
	IssuerNubank   Issuer = "nubank"
	IssuerItau     Issuer = "itau"
	IssuerBradesco Issuer = "bradesco"
	IssuerGeneric  Issuer = "generic"
)

// DiagnosticEvent classifies what the parser did with a line or document.
type DiagnosticEvent string

const (
	EventLineSkipped          DiagnosticEvent = "line_skipped"
	EventAmountUnparsable     DiagnosticEvent = "amount_unparsable"
	EventNoiseLine            DiagnosticEvent = "noise_line"
	EventAmbiguousInstallment DiagnosticEvent = "ambiguous_installment"
	EventParserPanic          DiagnosticEvent = "parser_panic"
	EventDetection            DiagnosticEvent = "detection"
)

// Diagnostic is a structured parsing event. Parsers return these instead of
// printing; the caller decides how or whether to surface them.
type Diagnostic struct {
	Line   int             `json:"line,omitempty"`
	Text   string          `json:"text,omitempty"`
	Event  DiagnosticEvent `json:"event"`
	Reason string          `json:"reason"`
}

// Statement is the result of parsing one document's text.
type Statement struct {
	Issuer         Issuer                 `json:"issuer"`
	ReferenceMonth time.Time              `json:"referenceMonth"`
	Transactions   []ExtractedTransaction `json:"transactions"`
	Diagnostics    []Diagnostic           `json:"diagnostics,omitempty"`
}
