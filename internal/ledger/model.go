package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StatusPaidPending marks a lead whose payment claim has not yet been
// verified by a human. Promotion to a final status happens outside this
// system.
const StatusPaidPending = "PAID_PENDING"

// Lead is a durable record of a completed-or-payment-pending engagement.
// Rows are append-only: nothing in this codebase updates or deletes them.
type Lead struct {
	InvoiceID   string    `json:"invoiceId"`
	Phone       string    `json:"phone"`
	WebsiteType string    `json:"websiteType"`
	Pages       string    `json:"pages"`
	Budget      string    `json:"budget"`
	Price       int       `json:"price"`
	Status      string    `json:"status"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewInvoiceID generates a collision-resistant invoice identifier.
func NewInvoiceID() string {
	return fmt.Sprintf("INV-%s", uuid.NewString())
}
