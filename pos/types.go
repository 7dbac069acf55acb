/*
Package pos provides the point-of-sale domain model and services.

PURPOSE:
  This package owns the financial records of the business - customers,
  sale invoices, cash vouchers, merchandise returns - and the services
  that mutate them while keeping each customer's per-currency balance
  consistent with the event stream the ledger engine derives from them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer: identity plus the denormalized per-currency balance
  - Sale: invoice with line items; final = total - discount
  - Voucher: cash receipt or payment, optionally linked to a customer
  - SaleReturn: merchandise coming back against a sale

SIGN CONVENTION (fixed for the whole system):
  A POSITIVE balance means the customer owes the business.
  A NEGATIVE balance means the business owes the customer.
  Every balance delta in service.go is verified against this convention.

SEE ALSO:
  - adapter.go: Maps these records to ledger events
  - service.go: Mutating operations and the balance maintainer
  - store.go: Persistence and inventory collaborator interfaces
*/
package pos

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kervanji/HisabX-sub001/ledger"
)

// =============================================================================
// CUSTOMER
// =============================================================================

type Customer struct {
	ID      string
	Name    string
	Phone   string
	Address string

	// BalanceByCurrency is maintained exclusively by the balance
	// maintainer (CustomerRepository.ApplyBalanceDelta). Nothing else
	// may write to it.
	BalanceByCurrency map[ledger.Currency]decimal.Decimal

	CreatedAt time.Time
}

// Balance returns the customer's balance in the given currency (zero if
// the customer has no history in it).
func (c *Customer) Balance(currency ledger.Currency) decimal.Decimal {
	if c.BalanceByCurrency == nil {
		return decimal.Zero
	}
	return c.BalanceByCurrency[currency]
}

// =============================================================================
// SALE
// =============================================================================

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentOverdue PaymentStatus = "OVERDUE"
)

type Sale struct {
	ID            string
	InvoiceNumber string
	CustomerID    string // required, immutable after creation
	Date          time.Time
	Currency      ledger.Currency

	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal // invariant: TotalAmount - DiscountAmount
	PaidAmount     decimal.Decimal
	PaymentStatus  PaymentStatus

	Location string // optional project/location statement filter key
	Items    []SaleItem

	CreatedAt time.Time
}

type SaleItem struct {
	ID        string
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

// Subtotal returns quantity * unit price - discount for the line.
func (it SaleItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.Discount)
}

// Outstanding returns what remains unpaid on the sale.
func (s *Sale) Outstanding() decimal.Decimal {
	return s.FinalAmount.Sub(s.PaidAmount)
}

// IsPaid reports whether the paid amount covers the final amount within
// the payment epsilon.
func (s *Sale) IsPaid() bool {
	return ledger.CoversWithinEpsilon(s.PaidAmount, s.FinalAmount)
}

// =============================================================================
// VOUCHER
// =============================================================================

type VoucherType string

const (
	// VoucherReceipt records money received FROM the customer: reduces debt.
	VoucherReceipt VoucherType = "RECEIPT"
	// VoucherPayment records money paid TO the customer: increases debt.
	VoucherPayment VoucherType = "PAYMENT"
)

type Voucher struct {
	ID         string
	Type       VoucherType
	Number     int    // sequential per type
	CustomerID string // optional: vouchers may be unlinked
	Amount     decimal.Decimal
	Currency   ledger.Currency
	Date       time.Time
	Cancelled  bool
	Location   string
	Notes      string

	CreatedAt time.Time
}

// =============================================================================
// SALE RETURN
// =============================================================================

type ReturnStatus string

const (
	ReturnPending   ReturnStatus = "PENDING"
	ReturnCompleted ReturnStatus = "COMPLETED"
	ReturnCancelled ReturnStatus = "CANCELLED"
)

type ItemCondition string

const (
	ConditionUndamaged ItemCondition = "UNDAMAGED"
	ConditionDamaged   ItemCondition = "DAMAGED"
)

type SaleReturn struct {
	ID         string
	SaleID     string
	CustomerID string
	Date       time.Time

	// Currency is inherited from the originating sale at creation time.
	Currency ledger.Currency

	TotalAmount decimal.Decimal
	Status      ReturnStatus
	Reason      string
	Items       []ReturnItem

	CreatedAt time.Time
}

type ReturnItem struct {
	ID        string
	ProductID string
	Quantity  int
	Condition ItemCondition
}
