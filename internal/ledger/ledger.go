package ledger

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrMissingPhone is returned when a lead has no phone.
	ErrMissingPhone = errors.New("ledger: phone is required")

	// ErrDuplicateInvoice is returned when an invoice id is appended twice.
	ErrDuplicateInvoice = errors.New("ledger: duplicate invoice id")
)

// Ledger records completed engagements. Append is the only write operation;
// implementations never mutate existing rows.
type Ledger interface {
	Append(ctx context.Context, lead *Lead) error
}

// InMemoryLedger is a Ledger backed by an in-memory slice, used in tests.
type InMemoryLedger struct {
	mu       sync.Mutex
	leads    []Lead
	invoices map[string]struct{}
}

// NewInMemoryLedger creates an empty in-memory ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{invoices: make(map[string]struct{})}
}

var _ Ledger = (*InMemoryLedger)(nil)

// Append records the lead, enforcing invoice id uniqueness.
func (l *InMemoryLedger) Append(ctx context.Context, lead *Lead) error {
	if lead.Phone == "" {
		return ErrMissingPhone
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.invoices[lead.InvoiceID]; exists {
		return ErrDuplicateInvoice
	}
	l.invoices[lead.InvoiceID] = struct{}{}
	l.leads = append(l.leads, *lead)
	return nil
}

// All returns a copy of every recorded lead.
func (l *InMemoryLedger) All() []Lead {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Lead, len(l.leads))
	copy(out, l.leads)
	return out
}
