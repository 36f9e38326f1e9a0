package billing

import (
	"errors"
	"testing"
	"time"

	"github.com/backspacehq/backspace_backend/finance"
	"github.com/backspacehq/backspace_backend/models"
)

var issued = time.Date(2026, 3, 12, 14, 0, 0, 0, time.UTC)

func TestBuildInvoice(t *testing.T) {
	lines := []DraftLine{
		{Description: "Session at Room 2", Quantity: 1, Rate: 3000, Amount: 3000},
		{Description: "Latte", Quantity: 2, Rate: 450, Amount: 900},
	}

	inv, err := BuildInvoice("cust-1", "INV-1001", lines, issued.AddDate(0, 0, 7), issued)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Total != 3900 {
		t.Errorf("total = %d, want 3900", inv.Total)
	}
	if inv.PaidAmount != 0 || inv.Status != models.InvoiceStatusUnpaid {
		t.Errorf("new invoice must start unpaid with zero paid, got %s/%d", inv.Status, inv.PaidAmount)
	}
	if err := CheckInvoiceInvariants(inv); err != nil {
		t.Errorf("fresh invoice violates invariants: %v", err)
	}
}

func TestBuildInvoice_RejectsBadLines(t *testing.T) {
	cases := []DraftLine{
		{Description: "negative", Quantity: 1, Rate: -100, Amount: -100},
		{Description: "zero qty", Quantity: 0, Rate: 100, Amount: 0},
		{Description: "mismatch", Quantity: 2, Rate: 100, Amount: 150},
	}
	for _, line := range cases {
		_, err := BuildInvoice("cust-1", "INV-1002", []DraftLine{line}, issued, issued)
		if !errors.Is(err, finance.ErrInvalidAmount) {
			t.Errorf("line %q: got %v, want ErrInvalidAmount", line.Description, err)
		}
	}
}

func TestCancelInvoice(t *testing.T) {
	inv, err := BuildInvoice("cust-1", "INV-1003",
		[]DraftLine{{Description: "x", Quantity: 1, Rate: 1000, Amount: 1000}}, issued, issued)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := CancelInvoice(inv); err != nil {
		t.Fatalf("cancel of untouched invoice failed: %v", err)
	}
	if inv.Status != models.InvoiceStatusCancelled {
		t.Errorf("status = %s, want cancelled", inv.Status)
	}

	// Cancelling twice is invalid.
	if err := CancelInvoice(inv); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double cancel: got %v, want ErrInvalidState", err)
	}
}

func TestCancelInvoice_RejectsPartiallyPaid(t *testing.T) {
	inv, err := BuildInvoice("cust-1", "INV-1004",
		[]DraftLine{{Description: "x", Quantity: 1, Rate: 1000, Amount: 1000}}, issued, issued)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ApplyPayment(inv, 400, issued); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := CancelInvoice(inv); !errors.Is(err, ErrInvalidState) {
		t.Errorf("cancel of partially paid invoice: got %v, want ErrInvalidState", err)
	}
}
