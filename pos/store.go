/*
store.go - Persistence and inventory collaborator interfaces

PURPOSE:
  Defines the boundary between the domain services and whatever stores
  the records. The engine never touches SQL directly; implementations
  live in store/sqlite (production) and pos/store/memory (tests).

KEY INTERFACES:
  CustomerRepository: Customer records + the atomic balance primitive
  SaleRepository:     Sales with their line items
  VoucherRepository:  Vouchers + sequential per-type numbering
  ReturnRepository:   Sale returns with their line items
  Inventory:          Stock adjustment collaborator
  UnitOfWork:         Scoped transaction over all repositories

THE BALANCE PRIMITIVE:
  ApplyBalanceDelta is the ONLY way a customer balance changes. The
  stored balance is incremented, never overwritten with a caller-supplied
  total, so concurrent deltas for the same customer/currency cannot lose
  updates as long as the implementation's transaction isolation holds.
  The primitive does not guard against double-application; callers own
  exactly-once invocation per logical event (service.go serializes per
  customer and couples each delta with its record inside one unit of
  work).

UNIT OF WORK:
  Every mutating operation runs inside WithTx: the primary record write
  and its balance delta commit or roll back together. This is what makes
  "sale persisted but balance missing" structurally impossible for
  stores that implement real transactions.

SEE ALSO:
  - store/sqlite/sqlite.go: Production implementation
  - pos/store/memory/memory.go: In-memory implementation for tests
  - service.go: The only caller of these interfaces
*/
package pos

import (
	"context"

	"github.com/kervanji/HisabX-sub001/ledger"
)

// =============================================================================
// REPOSITORIES
// =============================================================================

type CustomerRepository interface {
	FindByID(ctx context.Context, id string) (*Customer, error)

	// Save inserts or updates the customer record. It never writes
	// BalanceByCurrency; balances move only through ApplyBalanceDelta.
	Save(ctx context.Context, c *Customer) error

	// Delete removes a customer. Fails while sales, vouchers or returns
	// still reference it (referential integrity).
	Delete(ctx context.Context, id string) error

	// ApplyBalanceDelta adds delta.Amount to the customer's balance in
	// delta.Currency. Implementations must make the increment safe
	// against concurrent deltas (transaction isolation or locking).
	ApplyBalanceDelta(ctx context.Context, customerID string, delta ledger.Money) error
}

type SaleRepository interface {
	FindByID(ctx context.Context, id string) (*Sale, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*Sale, error)
	Save(ctx context.Context, s *Sale) error
	Delete(ctx context.Context, id string) error
}

type VoucherRepository interface {
	FindByID(ctx context.Context, id string) (*Voucher, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*Voucher, error)
	Save(ctx context.Context, v *Voucher) error

	// NextNumber reserves the next sequential number for the voucher type.
	NextNumber(ctx context.Context, t VoucherType) (int, error)
}

type ReturnRepository interface {
	FindByID(ctx context.Context, id string) (*SaleReturn, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*SaleReturn, error)

	// FindBySale returns every return recorded against the sale, in
	// creation order. Used to bound cumulative returned quantities.
	FindBySale(ctx context.Context, saleID string) ([]*SaleReturn, error)

	Save(ctx context.Context, r *SaleReturn) error
	Delete(ctx context.Context, id string) error
}

// Repositories bundles all record repositories. WithTx hands the service
// a transactional set bound to one transaction.
type Repositories struct {
	Customers CustomerRepository
	Sales     SaleRepository
	Vouchers  VoucherRepository
	Returns   ReturnRepository
}

// =============================================================================
// UNIT OF WORK
// =============================================================================

// UnitOfWork executes fn within one transaction. If fn returns an error
// the transaction is rolled back, otherwise committed. All writes made
// through the supplied Repositories share the transaction.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(Repositories) error) error
}

// =============================================================================
// INVENTORY COLLABORATOR
// =============================================================================

// Inventory is the external stock collaborator. It does not join the
// unit of work; the service compensates on failure (see service.go).
type Inventory interface {
	IncreaseStock(ctx context.Context, productID string, qty int) error

	// DecreaseStock fails with InsufficientStockError when qty exceeds
	// the units on hand.
	DecreaseStock(ctx context.Context, productID string, qty int) error
}
