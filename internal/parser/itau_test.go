package parser

import (
	"testing"

	"github.com/faturaflow/statement-import/internal/models"
)

func TestItauParser_Parse(t *testing.T) {
	p := &ItauParser{}

	text := `Itaú Unibanco - Fatura Itaucard
Vencimento: 20/11/2025

Lançamentos: cartão final 1234
Data Lançamento Valor
03/10 MAGAZINELUIZA PARC 02/10 119,90
12/10 DROGARIA SP PACAEMBU 34,90
15/10 PAGAMENTO EFETUADO -850,00
Total nacional R$ 154,80
Saldo anterior R$ 850,00`

	stmt, err := p.Parse(text, ParseOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stmt.Transactions) != 3 {
		t.Fatalf("transactions: got %d, want 3", len(stmt.Transactions))
	}

	txn := stmt.Transactions[0]
	if txn.Description != "MAGAZINELUIZA" {
		t.Errorf("txn[0].Description: got %q, want %q", txn.Description, "MAGAZINELUIZA")
	}
	if txn.Installment == nil || txn.Installment.Current != 2 || txn.Installment.Total != 10 {
		t.Errorf("txn[0].Installment: got %+v, want 2/10", txn.Installment)
	}

	if stmt.Transactions[2].Kind != models.KindCredit {
		t.Errorf("txn[2].Kind: got %q, want %q", stmt.Transactions[2].Kind, models.KindCredit)
	}
}

func TestItauParser_CanParse(t *testing.T) {
	p := &ItauParser{}

	if !p.CanParse("Fatura Itaucard outubro") {
		t.Error("expected Itaú detection")
	}
	if p.CanParse("FATURA PICPAY emitida com Itaú") {
		t.Error("PicPay markers must exclude the Itaú parser")
	}
}
