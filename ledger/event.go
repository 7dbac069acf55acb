/*
event.go - Normalized ledger events and statement items

PURPOSE:
  Defines the single shape every financial source record is mapped into
  before statement construction. Sales, vouchers and returns all become
  an Event; the statement builder never sees the originals.

KEY INVARIANTS:
  1. DERIVED: Events are computed transiently, never persisted
  2. CLOSED KINDS: EventKind is a closed enumeration; display labels are
     a presentation concern and never drive logic
  3. ONE-SIDED: Every event carries a debit OR a credit, never both

SIGN CONVENTION:
  Debit increases what the customer owes the business; credit decreases it.
  Running balance = sum(debit - credit), so a positive balance means the
  customer owes the business.

SEE ALSO:
  - statement.go: Orders events and stamps running balances
  - pos/adapter.go: Maps domain records to events
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EVENT KIND - Closed tagged enumeration
// =============================================================================

type EventKind string

const (
	KindSaleInvoice    EventKind = "sale-invoice"
	KindReceiptVoucher EventKind = "receipt-voucher"
	KindPaymentVoucher EventKind = "payment-voucher"
	KindSaleReturn     EventKind = "sale-return"

	// KindOpeningBalance marks the synthetic first row injected when a
	// statement is generated with a start date.
	KindOpeningBalance EventKind = "previous-balance"
)

// =============================================================================
// EVENT - Normalized debit/credit record
// =============================================================================

type Event struct {
	Date        time.Time
	Kind        EventKind
	Reference   string // human-facing code, e.g. invoice or voucher number
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Currency    Currency
	Location    string // project/location tag used as a statement filter key
	SourceID    string // identity of the originating record
}

// Delta returns the event's net effect on the running balance.
func (e Event) Delta() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// =============================================================================
// STATEMENT ITEM - Event plus computed running balance
// =============================================================================

type Item struct {
	Event
	RunningBalance decimal.Decimal
}

// IsOpening reports whether the item is the synthetic opening-balance row.
func (it Item) IsOpening() bool {
	return it.Kind == KindOpeningBalance
}
