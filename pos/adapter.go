/*
adapter.go - Domain records to normalized ledger events

PURPOSE:
  Three pure mapping functions, one per financial source record. Each
  returns a normalized ledger.Event or nil. Nil means "this record does
  not participate": cancelled vouchers, non-completed returns, zero-value
  sales, and records whose required references are gone.

WHY NIL INSTEAD OF AN ERROR?
  Statement generation must be resilient to partial data. A return whose
  sale was deleted is a data defect, but one statement row going missing
  is recoverable; the whole statement failing is not. Adapters drop the
  record, they never throw.

DEBIT/CREDIT MAPPING:
  Sale             -> debit = finalAmount        (customer owes more)
  Voucher RECEIPT  -> credit = amount            (customer paid us)
  Voucher PAYMENT  -> debit = amount             (we paid the customer)
  SaleReturn       -> credit = totalReturnAmount (goods came back)

SEE ALSO:
  - ledger/event.go: The Event shape produced here
  - service.go: Applies these over fetched records
*/
package pos

import (
	"fmt"

	"github.com/kervanji/HisabX-sub001/ledger"
)

// =============================================================================
// ADAPTERS - Pure, side-effect-free
// =============================================================================

// SaleEvent maps a sale to its ledger event. Sales with a non-positive
// final amount produce no event.
func SaleEvent(s *Sale) *ledger.Event {
	if s == nil || !s.FinalAmount.IsPositive() {
		return nil
	}
	ref := s.InvoiceNumber
	if ref == "" {
		ref = s.ID
	}
	return &ledger.Event{
		Date:        s.Date,
		Kind:        ledger.KindSaleInvoice,
		Reference:   ref,
		Description: "sale invoice",
		Debit:       s.FinalAmount,
		Currency:    s.Currency,
		Location:    s.Location,
		SourceID:    s.ID,
	}
}

// VoucherEvent maps a voucher to its ledger event. Cancelled vouchers
// and unknown voucher types produce no event.
func VoucherEvent(v *Voucher) *ledger.Event {
	if v == nil || v.Cancelled {
		return nil
	}
	e := ledger.Event{
		Date:     v.Date,
		Currency: v.Currency,
		Location: v.Location,
		SourceID: v.ID,
	}
	switch v.Type {
	case VoucherReceipt:
		e.Kind = ledger.KindReceiptVoucher
		e.Description = "receipt voucher"
		e.Reference = fmt.Sprintf("RCV-%06d", v.Number)
		e.Credit = v.Amount
	case VoucherPayment:
		e.Kind = ledger.KindPaymentVoucher
		e.Description = "payment voucher"
		e.Reference = fmt.Sprintf("PMV-%06d", v.Number)
		e.Debit = v.Amount
	default:
		return nil
	}
	return &e
}

// ReturnEvent maps a completed return to its ledger event. Currency and
// location are inherited from the originating sale; if the sale link is
// gone the base currency is assumed and the location left empty.
func ReturnEvent(r *SaleReturn, sale *Sale) *ledger.Event {
	if r == nil || r.Status != ReturnCompleted {
		return nil
	}
	currency := ledger.BaseCurrency
	location := ""
	if sale != nil {
		currency = sale.Currency
		location = sale.Location
	} else if r.Currency != "" {
		currency = r.Currency
	}
	return &ledger.Event{
		Date:        r.Date,
		Kind:        ledger.KindSaleReturn,
		Reference:   r.ID,
		Description: "sale return",
		Credit:      r.TotalAmount,
		Currency:    currency,
		Location:    location,
		SourceID:    r.ID,
	}
}
