/*
service.go - Domain operations and the balance maintainer

PURPOSE:
  The public entry point of the ledger engine. Every mutating operation
  (record/delete sale, record/cancel voucher, record return, mark paid)
  runs here, combining validation, the unit of work, the inventory
  collaborator, and the balance-delta primitive. Statement generation
  reads the same records and replays them through the adapters.

BALANCE MAINTENANCE PROTOCOL:
  Sign convention: positive balance = customer owes the business.

  record sale        ->  +(final - paid)
  delete sale        ->  -(final - paid)     (exact inverse, current paid)
  mark sale paid     ->  -(final - paid), then paid = final
  receipt voucher    ->  -amount
  payment voucher    ->  +amount
  cancel voucher     ->  inverse of the original voucher delta
  completed return   ->  -totalReturnAmount  (in the sale's currency)

  Each delta is applied exactly once per logical event, inside the same
  unit of work as the record write. Per-customer serialization (keyed
  mutex) prevents interleaved read-modify-write across operations.

INVENTORY AND COMPENSATION:
  Inventory is an external collaborator that cannot join the unit of
  work. Stock is adjusted around the transaction and compensated if the
  transaction fails; when compensation itself fails the operation
  surfaces a ReconciliationError - never a silent log line.

SEE ALSO:
  - adapter.go: Record-to-event mapping used by GenerateStatement
  - ledger/statement.go: Ordering and running-balance computation
  - store.go: The collaborator interfaces consumed here
*/
package pos

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/kervanji/HisabX-sub001/ledger"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service is the ledger façade. All dependencies are injected; there is
// no hidden static state.
type Service struct {
	repos Repositories
	uow   UnitOfWork
	inv   Inventory
	log   zerolog.Logger

	locks customerLocks
}

func NewService(repos Repositories, uow UnitOfWork, inv Inventory, log zerolog.Logger) *Service {
	return &Service{
		repos: repos,
		uow:   uow,
		inv:   inv,
		log:   log.With().Str("component", "pos").Logger(),
	}
}

// customerLocks serializes mutations per customer. Operations on
// different customers proceed in parallel; two operations on the same
// customer never interleave their unit of work.
type customerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (cl *customerLocks) lock(customerID string) func() {
	cl.mu.Lock()
	if cl.locks == nil {
		cl.locks = make(map[string]*sync.Mutex)
	}
	l, ok := cl.locks[customerID]
	if !ok {
		l = &sync.Mutex{}
		cl.locks[customerID] = l
	}
	cl.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// =============================================================================
// CUSTOMERS
// =============================================================================

type CustomerInput struct {
	Name    string
	Phone   string
	Address string
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	c := &Customer{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		Phone:             in.Phone,
		Address:           in.Address,
		BalanceByCurrency: map[ledger.Currency]decimal.Decimal{},
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.repos.Customers.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	if id == "" {
		return nil, &ValidationError{Field: "customerId", Reason: "must not be empty"}
	}
	return s.repos.Customers.FindByID(ctx, id)
}

// DeleteCustomer removes an unreferenced customer. The repository
// enforces referential integrity and refuses while sales, vouchers or
// returns still point at the customer.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "customerId", Reason: "must not be empty"}
	}
	unlock := s.locks.lock(id)
	defer unlock()
	return s.repos.Customers.Delete(ctx, id)
}

// =============================================================================
// STATEMENT GENERATION
// =============================================================================

type StatementRequest struct {
	Currency          ledger.Currency // mandatory
	Location          string
	From              *time.Time
	To                *time.Time
	IncludeItemDetail bool
}

// GenerateStatement builds the ordered account statement for a customer.
// It is read-only and safe to run concurrently with mutations; it sees
// whatever the store has committed.
func (s *Service) GenerateStatement(ctx context.Context, customerID string, req StatementRequest) ([]ledger.Item, error) {
	if customerID == "" {
		return nil, &ValidationError{Field: "customerId", Reason: "must not be empty"}
	}
	if req.Currency == "" {
		return nil, &ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	if _, err := s.repos.Customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	sales, err := s.repos.Sales.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	vouchers, err := s.repos.Vouchers.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	returns, err := s.repos.Returns.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	salesByID := make(map[string]*Sale, len(sales))
	for _, sale := range sales {
		salesByID[sale.ID] = sale
	}

	events := make([]ledger.Event, 0, len(sales)+len(vouchers)+len(returns))
	for _, sale := range sales {
		if ev := SaleEvent(sale); ev != nil {
			if req.IncludeItemDetail {
				ev.Description = saleDetail(sale)
			}
			events = append(events, *ev)
		}
	}
	for _, v := range vouchers {
		if ev := VoucherEvent(v); ev != nil {
			events = append(events, *ev)
		}
	}
	for _, r := range returns {
		if ev := ReturnEvent(r, salesByID[r.SaleID]); ev != nil {
			events = append(events, *ev)
		}
	}

	return ledger.Build(events, ledger.Filter{
		Currency: req.Currency,
		Location: req.Location,
		From:     req.From,
		To:       req.To,
	})
}

func saleDetail(sale *Sale) string {
	parts := make([]string, 0, len(sale.Items))
	for _, it := range sale.Items {
		parts = append(parts, fmt.Sprintf("%d x %s @ %s", it.Quantity, it.ProductID, it.UnitPrice))
	}
	if len(parts) == 0 {
		return "sale invoice"
	}
	return "sale invoice: " + strings.Join(parts, ", ")
}

// =============================================================================
// SALES
// =============================================================================

type SaleItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

type SaleInput struct {
	CustomerID     string
	InvoiceNumber  string
	Date           time.Time
	Currency       ledger.Currency
	DiscountAmount decimal.Decimal
	PaidAmount     decimal.Decimal
	Location       string
	Items          []SaleItemInput
}

// RecordSale persists a sale with its line items, decrements inventory,
// and applies the balance delta +(final - paid), all for one customer.
func (s *Service) RecordSale(ctx context.Context, in SaleInput) (*Sale, error) {
	if err := validateSaleInput(in); err != nil {
		return nil, err
	}

	sale := &Sale{
		ID:             uuid.NewString(),
		InvoiceNumber:  in.InvoiceNumber,
		CustomerID:     in.CustomerID,
		Date:           in.Date,
		Currency:       in.Currency,
		DiscountAmount: in.DiscountAmount,
		PaidAmount:     in.PaidAmount,
		Location:       in.Location,
		CreatedAt:      time.Now().UTC(),
	}
	total := decimal.Zero
	for _, it := range in.Items {
		item := SaleItem{
			ID:        uuid.NewString(),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
		}
		total = total.Add(item.Subtotal())
		sale.Items = append(sale.Items, item)
	}
	sale.TotalAmount = total
	sale.FinalAmount = total.Sub(in.DiscountAmount)
	if sale.FinalAmount.IsNegative() {
		return nil, &ValidationError{Field: "discountAmount", Reason: "exceeds total amount"}
	}
	if sale.IsPaid() {
		sale.PaymentStatus = PaymentPaid
	} else {
		sale.PaymentStatus = PaymentPending
	}

	unlock := s.locks.lock(in.CustomerID)
	defer unlock()

	// Inventory first: a stock shortage must abort before anything is
	// persisted. Track what was decremented for compensation.
	decremented, err := s.decrementStock(ctx, sale.Items)
	if err != nil {
		if cerr := s.compensateIncrease(ctx, decremented); cerr != nil {
			return nil, &ReconciliationError{
				Op:         "record-sale",
				CustomerID: in.CustomerID,
				Delta:      ledger.Zero(sale.Currency),
				Cause:      fmt.Errorf("stock compensation failed: %w (after: %v)", cerr, err),
			}
		}
		return nil, err
	}

	err = s.uow.WithTx(ctx, func(r Repositories) error {
		if _, err := r.Customers.FindByID(ctx, in.CustomerID); err != nil {
			return err
		}
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}
		delta := ledger.NewMoney(sale.Outstanding(), sale.Currency)
		return r.Customers.ApplyBalanceDelta(ctx, in.CustomerID, delta)
	})
	if err != nil {
		// The transaction rolled back; put the stock back. If that
		// fails too, stock and records have diverged.
		if cerr := s.compensateIncrease(ctx, decremented); cerr != nil {
			return nil, &ReconciliationError{
				Op:         "record-sale",
				CustomerID: in.CustomerID,
				Delta:      ledger.Zero(sale.Currency),
				Cause:      fmt.Errorf("stock compensation failed: %w (after: %v)", cerr, err),
			}
		}
		return nil, err
	}

	s.log.Info().
		Str("sale", sale.ID).
		Str("customer", sale.CustomerID).
		Str("currency", string(sale.Currency)).
		Str("outstanding", sale.Outstanding().String()).
		Msg("sale recorded")
	return sale, nil
}

// DeleteSale restores inventory, applies the exact inverse balance delta
// and removes the record.
func (s *Service) DeleteSale(ctx context.Context, saleID string) error {
	if saleID == "" {
		return &ValidationError{Field: "saleId", Reason: "must not be empty"}
	}
	sale, err := s.repos.Sales.FindByID(ctx, saleID)
	if err != nil {
		return err
	}

	unlock := s.locks.lock(sale.CustomerID)
	defer unlock()

	// Restore stock first, mirroring creation order in reverse.
	restored, err := s.incrementStock(ctx, sale.Items)
	if err != nil {
		if cerr := s.compensateDecrease(ctx, restored); cerr != nil {
			return &ReconciliationError{
				Op:         "delete-sale",
				CustomerID: sale.CustomerID,
				Delta:      ledger.Zero(sale.Currency),
				Cause:      fmt.Errorf("stock compensation failed: %w (after: %v)", cerr, err),
			}
		}
		return err
	}

	err = s.uow.WithTx(ctx, func(r Repositories) error {
		sale, err := r.Sales.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		delta := ledger.NewMoney(sale.Outstanding().Neg(), sale.Currency)
		if err := r.Customers.ApplyBalanceDelta(ctx, sale.CustomerID, delta); err != nil {
			return err
		}
		return r.Sales.Delete(ctx, saleID)
	})
	if err != nil {
		if cerr := s.compensateDecrease(ctx, restored); cerr != nil {
			return &ReconciliationError{
				Op:         "delete-sale",
				CustomerID: sale.CustomerID,
				Delta:      ledger.Zero(sale.Currency),
				Cause:      fmt.Errorf("stock compensation failed: %w (after: %v)", cerr, err),
			}
		}
		return err
	}

	s.log.Info().Str("sale", saleID).Str("customer", sale.CustomerID).Msg("sale deleted")
	return nil
}

// MarkSalePaid transitions a sale to PAID, applying the remaining
// balance delta. Marking an already-paid sale is a no-op.
func (s *Service) MarkSalePaid(ctx context.Context, saleID string) (*Sale, error) {
	if saleID == "" {
		return nil, &ValidationError{Field: "saleId", Reason: "must not be empty"}
	}
	existing, err := s.repos.Sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(existing.CustomerID)
	defer unlock()

	var updated *Sale
	err = s.uow.WithTx(ctx, func(r Repositories) error {
		sale, err := r.Sales.FindByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale.PaymentStatus == PaymentPaid && sale.IsPaid() {
			updated = sale
			return nil
		}
		remaining := sale.Outstanding()
		if remaining.IsPositive() {
			delta := ledger.NewMoney(remaining.Neg(), sale.Currency)
			if err := r.Customers.ApplyBalanceDelta(ctx, sale.CustomerID, delta); err != nil {
				return err
			}
		}
		sale.PaidAmount = sale.FinalAmount
		sale.PaymentStatus = PaymentPaid
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// =============================================================================
// VOUCHERS
// =============================================================================

type VoucherInput struct {
	Type       VoucherType
	CustomerID string // optional: empty means unlinked
	Amount     decimal.Decimal
	Currency   ledger.Currency
	Date       time.Time
	Location   string
	Notes      string
}

// RecordVoucher persists a voucher with the next sequential per-type
// number and, when linked to a customer, applies its balance delta:
// -amount for receipts, +amount for payments.
func (s *Service) RecordVoucher(ctx context.Context, in VoucherInput) (*Voucher, error) {
	if in.Type != VoucherReceipt && in.Type != VoucherPayment {
		return nil, &ValidationError{Field: "type", Reason: "must be RECEIPT or PAYMENT"}
	}
	if in.Currency == "" {
		return nil, &ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "must be set"}
	}
	if !in.Amount.IsPositive() {
		return nil, &ValidationError{Field: "amount", Reason: "must be positive"}
	}

	v := &Voucher{
		ID:         uuid.NewString(),
		Type:       in.Type,
		CustomerID: in.CustomerID,
		Amount:     in.Amount,
		Currency:   in.Currency,
		Date:       in.Date,
		Location:   in.Location,
		Notes:      in.Notes,
		CreatedAt:  time.Now().UTC(),
	}

	if in.CustomerID != "" {
		unlock := s.locks.lock(in.CustomerID)
		defer unlock()
	}

	err := s.uow.WithTx(ctx, func(r Repositories) error {
		number, err := r.Vouchers.NextNumber(ctx, in.Type)
		if err != nil {
			return err
		}
		v.Number = number
		if err := r.Vouchers.Save(ctx, v); err != nil {
			return err
		}
		if v.CustomerID == "" {
			return nil
		}
		if _, err := r.Customers.FindByID(ctx, v.CustomerID); err != nil {
			return err
		}
		return r.Customers.ApplyBalanceDelta(ctx, v.CustomerID, voucherDelta(v))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("voucher", v.ID).
		Str("type", string(v.Type)).
		Int("number", v.Number).
		Msg("voucher recorded")
	return v, nil
}

// CancelVoucher flags the voucher cancelled and reverses any previously
// applied balance delta. Cancelling twice is rejected.
func (s *Service) CancelVoucher(ctx context.Context, voucherID string) (*Voucher, error) {
	if voucherID == "" {
		return nil, &ValidationError{Field: "voucherId", Reason: "must not be empty"}
	}
	existing, err := s.repos.Vouchers.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}

	if existing.CustomerID != "" {
		unlock := s.locks.lock(existing.CustomerID)
		defer unlock()
	}

	var cancelled *Voucher
	err = s.uow.WithTx(ctx, func(r Repositories) error {
		v, err := r.Vouchers.FindByID(ctx, voucherID)
		if err != nil {
			return err
		}
		if v.Cancelled {
			return &ValidationError{Field: "voucherId", Reason: "voucher is already cancelled"}
		}
		v.Cancelled = true
		if err := r.Vouchers.Save(ctx, v); err != nil {
			return err
		}
		if v.CustomerID != "" {
			if err := r.Customers.ApplyBalanceDelta(ctx, v.CustomerID, voucherDelta(v).Neg()); err != nil {
				return err
			}
		}
		cancelled = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// voucherDelta is the balance effect of a live voucher under the
// positive-means-owed convention.
func voucherDelta(v *Voucher) ledger.Money {
	switch v.Type {
	case VoucherReceipt:
		return ledger.NewMoney(v.Amount.Neg(), v.Currency)
	default: // VoucherPayment
		return ledger.NewMoney(v.Amount, v.Currency)
	}
}

// =============================================================================
// RETURNS
// =============================================================================

type ReturnItemInput struct {
	ProductID string
	Quantity  int
	Condition ItemCondition
}

type ReturnInput struct {
	SaleID string
	Date   time.Time
	Reason string
	Status ReturnStatus // empty defaults to COMPLETED
	Items  []ReturnItemInput
}

// RecordReturn persists a merchandise return against a sale. A COMPLETED
// return reduces the customer's debt by the return total (in the sale's
// currency) and restores stock for items returned undamaged.
//
// Returned units are credited at their effective net price: the line's
// own discount and a pro-rated share of any sale-level discount are
// deducted, and the sale's combined return credit never exceeds what the
// sale debited. Quantities are validated against what is still
// returnable after every earlier non-cancelled return of the same sale.
func (s *Service) RecordReturn(ctx context.Context, in ReturnInput) (*SaleReturn, error) {
	if in.SaleID == "" {
		return nil, &ValidationError{Field: "saleId", Reason: "must not be empty"}
	}
	if in.Date.IsZero() {
		return nil, &ValidationError{Field: "date", Reason: "must be set"}
	}
	if len(in.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	status := in.Status
	if status == "" {
		status = ReturnCompleted
	}

	sale, err := s.repos.Sales.FindByID(ctx, in.SaleID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sale.CustomerID)
	defer unlock()

	ret := &SaleReturn{
		ID:         uuid.NewString(),
		SaleID:     sale.ID,
		CustomerID: sale.CustomerID,
		Date:       in.Date,
		Currency:   sale.Currency,
		Status:     status,
		Reason:     in.Reason,
		CreatedAt:  time.Now().UTC(),
	}

	err = s.uow.WithTx(ctx, func(r Repositories) error {
		sale, err := r.Sales.FindByID(ctx, in.SaleID)
		if err != nil {
			return err
		}
		prior, err := r.Returns.FindBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		alreadyReturned := make(map[string]int)
		alreadyCredited := decimal.Zero
		for _, p := range prior {
			if p.Status == ReturnCancelled {
				continue
			}
			for _, it := range p.Items {
				alreadyReturned[it.ProductID] += it.Quantity
			}
			if p.Status == ReturnCompleted {
				alreadyCredited = alreadyCredited.Add(p.TotalAmount)
			}
		}

		soldByProduct := make(map[string]SaleItem, len(sale.Items))
		for _, it := range sale.Items {
			soldByProduct[it.ProductID] = it
		}
		requested := make(map[string]int)
		total := decimal.Zero
		ret.Items = ret.Items[:0]
		for _, it := range in.Items {
			if it.Quantity <= 0 {
				return &ValidationError{Field: "items.quantity", Reason: "must be positive"}
			}
			sold, ok := soldByProduct[it.ProductID]
			if !ok {
				return &ValidationError{Field: "items.productId",
					Reason: fmt.Sprintf("product %s is not on sale %s", it.ProductID, sale.ID)}
			}
			requested[it.ProductID] += it.Quantity
			if returnable := sold.Quantity - alreadyReturned[it.ProductID]; requested[it.ProductID] > returnable {
				return &ValidationError{Field: "items.quantity",
					Reason: fmt.Sprintf("cannot return %d of %s, only %d of %d sold still returnable",
						requested[it.ProductID], it.ProductID, returnable, sold.Quantity)}
			}
			total = total.Add(effectiveUnitPrice(sale, sold).Mul(decimal.NewFromInt(int64(it.Quantity))))
			condition := it.Condition
			if condition == "" {
				condition = ConditionUndamaged
			}
			ret.Items = append(ret.Items, ReturnItem{
				ID:        uuid.NewString(),
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Condition: condition,
			})
		}
		// The credit can never exceed what the sale actually debited,
		// combined across every completed return of the sale.
		if remaining := sale.FinalAmount.Sub(alreadyCredited); total.GreaterThan(remaining) {
			total = remaining
		}
		if total.IsNegative() {
			total = decimal.Zero
		}
		ret.TotalAmount = total

		if err := r.Returns.Save(ctx, ret); err != nil {
			return err
		}
		if ret.Status != ReturnCompleted || ret.TotalAmount.IsZero() {
			return nil
		}
		delta := ledger.NewMoney(ret.TotalAmount.Neg(), ret.Currency)
		return r.Customers.ApplyBalanceDelta(ctx, ret.CustomerID, delta)
	})
	if err != nil {
		return nil, err
	}

	// Undamaged goods go back on the shelf. The return is already
	// committed; a stock failure here is a reconciliation problem and
	// must reach the caller.
	if ret.Status == ReturnCompleted {
		for _, it := range ret.Items {
			if it.Condition != ConditionUndamaged {
				continue
			}
			if err := s.inv.IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
				return nil, &ReconciliationError{
					Op:         "record-return",
					CustomerID: ret.CustomerID,
					Delta:      ledger.Zero(ret.Currency),
					Cause:      fmt.Errorf("restore stock for %s: %w", it.ProductID, err),
				}
			}
		}
	}

	s.log.Info().
		Str("return", ret.ID).
		Str("sale", ret.SaleID).
		Str("amount", ret.TotalAmount.String()).
		Msg("return recorded")
	return ret, nil
}

// effectiveUnitPrice is the net amount one returned unit is credited at:
// the line subtotal (unit price x quantity minus the line discount) with
// any sale-level discount pro-rated by the line's share of the sale
// total, divided by the quantity sold.
func effectiveUnitPrice(sale *Sale, it SaleItem) decimal.Decimal {
	if it.Quantity <= 0 {
		return decimal.Zero
	}
	lineNet := it.Subtotal()
	if !lineNet.IsPositive() {
		return decimal.Zero
	}
	if sale.DiscountAmount.IsPositive() && sale.TotalAmount.IsPositive() {
		lineNet = lineNet.Mul(sale.FinalAmount).DivRound(sale.TotalAmount, 4)
	}
	return lineNet.DivRound(decimal.NewFromInt(int64(it.Quantity)), 4)
}

// =============================================================================
// INVENTORY HELPERS
// =============================================================================

func (s *Service) decrementStock(ctx context.Context, items []SaleItem) ([]SaleItem, error) {
	var done []SaleItem
	for _, it := range items {
		if err := s.inv.DecreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return done, err
		}
		done = append(done, it)
	}
	return done, nil
}

func (s *Service) incrementStock(ctx context.Context, items []SaleItem) ([]SaleItem, error) {
	var done []SaleItem
	for _, it := range items {
		if err := s.inv.IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return done, err
		}
		done = append(done, it)
	}
	return done, nil
}

func (s *Service) compensateIncrease(ctx context.Context, items []SaleItem) error {
	for _, it := range items {
		if err := s.inv.IncreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) compensateDecrease(ctx context.Context, items []SaleItem) error {
	for _, it := range items {
		if err := s.inv.DecreaseStock(ctx, it.ProductID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

func validateSaleInput(in SaleInput) error {
	if in.CustomerID == "" {
		return &ValidationError{Field: "customerId", Reason: "must not be empty"}
	}
	if in.Currency == "" {
		return &ValidationError{Field: "currency", Reason: "must not be empty"}
	}
	if in.Date.IsZero() {
		return &ValidationError{Field: "date", Reason: "must be set"}
	}
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	if in.DiscountAmount.IsNegative() {
		return &ValidationError{Field: "discountAmount", Reason: "must not be negative"}
	}
	if in.PaidAmount.IsNegative() {
		return &ValidationError{Field: "paidAmount", Reason: "must not be negative"}
	}
	for _, it := range in.Items {
		if it.ProductID == "" {
			return &ValidationError{Field: "items.productId", Reason: "must not be empty"}
		}
		if it.Quantity <= 0 {
			return &ValidationError{Field: "items.quantity", Reason: "must be positive"}
		}
		if it.UnitPrice.IsNegative() {
			return &ValidationError{Field: "items.unitPrice", Reason: "must not be negative"}
		}
		if it.Discount.IsNegative() {
			return &ValidationError{Field: "items.discount", Reason: "must not be negative"}
		}
	}
	return nil
}
