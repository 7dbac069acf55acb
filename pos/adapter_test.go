package pos_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kervanji/HisabX-sub001/ledger"
	"github.com/kervanji/HisabX-sub001/pos"
)

// =============================================================================
// SALE ADAPTER
// =============================================================================

func TestSaleEvent_DebitsFinalAmount(t *testing.T) {
	sale := &pos.Sale{
		ID:          "sale-1",
		Date:        time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Currency:    "USD",
		FinalAmount: ledger.MustDecimal("600"),
		Location:    "site-a",
	}

	ev := pos.SaleEvent(sale)
	require.NotNil(t, ev)
	assert.Equal(t, ledger.KindSaleInvoice, ev.Kind)
	assert.Equal(t, "600", ev.Debit.String())
	assert.True(t, ev.Credit.IsZero())
	assert.Equal(t, ledger.Currency("USD"), ev.Currency)
	assert.Equal(t, "site-a", ev.Location)
	assert.Equal(t, "sale-1", ev.SourceID)
}

func TestSaleEvent_ZeroOrNegativeFinal_NoEvent(t *testing.T) {
	assert.Nil(t, pos.SaleEvent(&pos.Sale{FinalAmount: ledger.MustDecimal("0")}))
	assert.Nil(t, pos.SaleEvent(&pos.Sale{FinalAmount: ledger.MustDecimal("-5")}))
	assert.Nil(t, pos.SaleEvent(nil))
}

// =============================================================================
// VOUCHER ADAPTER
// =============================================================================

func TestVoucherEvent_ReceiptCredits_PaymentDebits(t *testing.T) {
	receipt := &pos.Voucher{Type: pos.VoucherReceipt, Number: 7, Amount: ledger.MustDecimal("200"), Currency: "USD"}
	payment := &pos.Voucher{Type: pos.VoucherPayment, Number: 3, Amount: ledger.MustDecimal("80"), Currency: "USD"}

	rev := pos.VoucherEvent(receipt)
	require.NotNil(t, rev)
	assert.Equal(t, ledger.KindReceiptVoucher, rev.Kind)
	assert.Equal(t, "200", rev.Credit.String())
	assert.True(t, rev.Debit.IsZero())
	assert.Equal(t, "RCV-000007", rev.Reference)

	pev := pos.VoucherEvent(payment)
	require.NotNil(t, pev)
	assert.Equal(t, ledger.KindPaymentVoucher, pev.Kind)
	assert.Equal(t, "80", pev.Debit.String())
	assert.True(t, pev.Credit.IsZero())
}

func TestVoucherEvent_Cancelled_NoEvent(t *testing.T) {
	v := &pos.Voucher{Type: pos.VoucherReceipt, Amount: ledger.MustDecimal("200"), Currency: "USD", Cancelled: true}
	assert.Nil(t, pos.VoucherEvent(v))
}

// =============================================================================
// RETURN ADAPTER
// =============================================================================

func TestReturnEvent_CompletedCreditsTotal_InheritsSaleCurrency(t *testing.T) {
	sale := &pos.Sale{ID: "sale-1", Currency: "IQD", Location: "site-b"}
	ret := &pos.SaleReturn{
		ID:          "ret-1",
		SaleID:      "sale-1",
		Status:      pos.ReturnCompleted,
		TotalAmount: ledger.MustDecimal("150"),
	}

	ev := pos.ReturnEvent(ret, sale)
	require.NotNil(t, ev)
	assert.Equal(t, ledger.KindSaleReturn, ev.Kind)
	assert.Equal(t, "150", ev.Credit.String())
	assert.Equal(t, ledger.Currency("IQD"), ev.Currency)
	assert.Equal(t, "site-b", ev.Location)
}

func TestReturnEvent_NotCompleted_NoEvent(t *testing.T) {
	ret := &pos.SaleReturn{Status: pos.ReturnPending, TotalAmount: ledger.MustDecimal("150")}
	assert.Nil(t, pos.ReturnEvent(ret, nil))
}

func TestReturnEvent_DanglingSaleLink_FallsBackToBaseCurrency(t *testing.T) {
	// The originating sale was deleted; the statement must still be
	// buildable, with the base currency assumed.
	ret := &pos.SaleReturn{Status: pos.ReturnCompleted, TotalAmount: ledger.MustDecimal("150")}

	ev := pos.ReturnEvent(ret, nil)
	require.NotNil(t, ev)
	assert.Equal(t, ledger.BaseCurrency, ev.Currency)
}

func TestReturnEvent_DanglingSaleLink_KeepsRecordedCurrency(t *testing.T) {
	ret := &pos.SaleReturn{Status: pos.ReturnCompleted, Currency: "USD", TotalAmount: ledger.MustDecimal("150")}

	ev := pos.ReturnEvent(ret, nil)
	require.NotNil(t, ev)
	assert.Equal(t, ledger.Currency("USD"), ev.Currency)
}
