package parser

import (
	"testing"
	"time"

	"github.com/faturaflow/statement-import/internal/models"
)

func TestNubankParser_Parse(t *testing.T) {
	p := &NubankParser{}

	text := `Nubank
Resumo da fatura
Vencimento: 10/11/2025

Transações
15 OUT Mercado Livre Parcela 2/6 89,90
18 OUT Padaria Estrela 12,50
20 OUT Pagamento recebido 1.200,00

Valor total R$ 902,40`

	stmt, err := p.Parse(text, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Transactions) != 3 {
		t.Fatalf("transactions: got %d, want 3", len(stmt.Transactions))
	}

	txn := stmt.Transactions[0]
	wantDate := time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC)
	if !txn.Date.Equal(wantDate) {
		t.Errorf("txn[0].Date: got %s, want %s", txn.Date, wantDate)
	}
	if txn.Description != "Mercado Livre" {
		t.Errorf("txn[0].Description: got %q, want %q", txn.Description, "Mercado Livre")
	}
	if txn.Installment == nil || txn.Installment.Current != 2 || txn.Installment.Total != 6 {
		t.Errorf("txn[0].Installment: got %+v, want 2/6", txn.Installment)
	}

	// "Pagamento recebido" is a credit even without a minus sign.
	txn = stmt.Transactions[2]
	if txn.Kind != models.KindCredit {
		t.Errorf("txn[2].Kind: got %q, want %q", txn.Kind, models.KindCredit)
	}
	if txn.Amount.String() != "1200" {
		t.Errorf("txn[2].Amount: got %s, want 1200", txn.Amount)
	}
}

func TestNubankParser_CanParse(t *testing.T) {
	p := &NubankParser{}

	if !p.CanParse("Nubank fatura de outubro") {
		t.Error("expected Nubank detection")
	}
	// PicPay markers exclude this parser even when "nubank" also appears.
	if p.CanParse("PicPay fatura mencionando nubank") {
		t.Error("did not expect detection when PicPay markers are present")
	}
}
