package ledger

import (
	"context"
	"testing"
)

func TestInMemoryLedger_Append(t *testing.T) {
	l := NewInMemoryLedger()

	lead := &Lead{
		InvoiceID:   NewInvoiceID(),
		Phone:       "919800000001",
		WebsiteType: "business",
		Pages:       "Home,About",
		Budget:      "5-10",
		Price:       7000,
		Status:      StatusPaidPending,
	}
	if err := l.Append(context.Background(), lead); err != nil {
		t.Fatalf("append: %v", err)
	}

	all := l.All()
	if len(all) != 1 {
		t.Fatalf("expected one lead, got %d", len(all))
	}
	if all[0].CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be stamped")
	}
}

func TestInMemoryLedger_RejectsDuplicateInvoice(t *testing.T) {
	l := NewInMemoryLedger()
	lead := &Lead{InvoiceID: "INV-1", Phone: "919800000001", Status: StatusPaidPending}

	if err := l.Append(context.Background(), lead); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := l.Append(context.Background(), lead); err != ErrDuplicateInvoice {
		t.Fatalf("expected ErrDuplicateInvoice, got %v", err)
	}
}

func TestInMemoryLedger_RequiresPhone(t *testing.T) {
	l := NewInMemoryLedger()
	if err := l.Append(context.Background(), &Lead{InvoiceID: "INV-1"}); err != ErrMissingPhone {
		t.Fatalf("expected ErrMissingPhone, got %v", err)
	}
}

func TestNewInvoiceID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := NewInvoiceID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate invoice id %s", id)
		}
		seen[id] = struct{}{}
	}
}
