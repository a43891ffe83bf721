package models

import (
	"strings"
	"testing"
)

func TestNewTransactionID(t *testing.T) {
	a := NewTransactionID()
	b := NewTransactionID()
	if a == b {
		t.Fatal("transaction ids must be unique")
	}
	if !strings.HasPrefix(a, "TXN") || len(a) != 27 {
		t.Fatalf("unexpected id format: %q", a)
	}
	if a != strings.ToUpper(a) {
		t.Fatalf("id must be upper case: %q", a)
	}
}

func TestPaymentNetAmount(t *testing.T) {
	p := Payment{Amount: 399, DiscountAmount: 39}
	if p.NetAmount() != 360 {
		t.Fatalf("net = %d, want 360", p.NetAmount())
	}
	over := Payment{Amount: 100, DiscountAmount: 150}
	if over.NetAmount() != 0 {
		t.Fatalf("net must not go negative, got %d", over.NetAmount())
	}
}

func TestPaymentMarkCompleted(t *testing.T) {
	p := Payment{Status: PAYMENT_STATUS_PENDING}
	p.MarkCompleted("gateway ok")
	if !p.IsSuccessful() || p.PaidAt == nil || p.GatewayResponse != "gateway ok" {
		t.Fatalf("unexpected state: %+v", p)
	}
}

func TestPaymentValidStatusTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{PAYMENT_STATUS_PENDING, PAYMENT_STATUS_COMPLETED, true},
		{PAYMENT_STATUS_PENDING, PAYMENT_STATUS_FAILED, true},
		{PAYMENT_STATUS_PENDING, PAYMENT_STATUS_CANCELLED, true},
		{PAYMENT_STATUS_COMPLETED, PAYMENT_STATUS_REFUNDED, true},
		{PAYMENT_STATUS_COMPLETED, PAYMENT_STATUS_PENDING, false},
		{PAYMENT_STATUS_COMPLETED, PAYMENT_STATUS_FAILED, false},
		{PAYMENT_STATUS_FAILED, PAYMENT_STATUS_COMPLETED, false},
		{PAYMENT_STATUS_REFUNDED, PAYMENT_STATUS_COMPLETED, false},
		{PAYMENT_STATUS_FAILED, PAYMENT_STATUS_FAILED, true},
	}
	for _, tt := range tests {
		p := Payment{Status: tt.from}
		if got := p.ValidStatusTransition(tt.to); got != tt.want {
			t.Fatalf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
