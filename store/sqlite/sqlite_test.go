package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kervanji/HisabX-sub001/ledger"
	"github.com/kervanji/HisabX-sub001/pos"
	"github.com/kervanji/HisabX-sub001/store/sqlite"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func saveCustomer(t *testing.T, store *sqlite.Store, name string) *pos.Customer {
	t.Helper()
	c := &pos.Customer{ID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Repos().Customers.Save(context.Background(), c))
	return c
}

func testSale(customerID string) *pos.Sale {
	sale := &pos.Sale{
		ID:            uuid.NewString(),
		InvoiceNumber: "INV-100",
		CustomerID:    customerID,
		Date:          time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Currency:      "USD",
		TotalAmount:   ledger.MustDecimal("1000"),
		FinalAmount:   ledger.MustDecimal("1000"),
		PaidAmount:    ledger.MustDecimal("400"),
		PaymentStatus: pos.PaymentPending,
		Location:      "branch-a",
		CreatedAt:     time.Now().UTC(),
		Items: []pos.SaleItem{
			{ID: uuid.NewString(), ProductID: "p-1", Quantity: 10, UnitPrice: ledger.MustDecimal("100")},
		},
	}
	return sale
}

// =============================================================================
// CUSTOMERS AND BALANCES
// =============================================================================

func TestCustomer_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c := &pos.Customer{
		ID: uuid.NewString(), Name: "Yusuf", Phone: "0770", Address: "Erbil",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Repos().Customers.Save(ctx, c))

	got, err := store.Repos().Customers.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Yusuf", got.Name)
	assert.Equal(t, "0770", got.Phone)
	assert.Empty(t, got.BalanceByCurrency)
}

func TestCustomer_FindByID_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Repos().Customers.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, pos.ErrNotFound)
}

func TestApplyBalanceDelta_AccumulatesPerCurrency(t *testing.T) {
	// GIVEN: a customer with no balances
	// WHEN: applying deltas in two currencies
	// THEN: each currency accumulates independently with exact decimals

	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	repo := store.Repos().Customers

	require.NoError(t, repo.ApplyBalanceDelta(ctx, c.ID, ledger.NewMoney(ledger.MustDecimal("0.1"), "USD")))
	require.NoError(t, repo.ApplyBalanceDelta(ctx, c.ID, ledger.NewMoney(ledger.MustDecimal("0.1"), "USD")))
	require.NoError(t, repo.ApplyBalanceDelta(ctx, c.ID, ledger.NewMoney(ledger.MustDecimal("0.1"), "USD")))
	require.NoError(t, repo.ApplyBalanceDelta(ctx, c.ID, ledger.NewMoney(ledger.MustDecimal("-5000"), "IQD")))

	got, err := repo.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.3", got.Balance("USD").String(), "decimal amounts must not drift")
	assert.Equal(t, "-5000", got.Balance("IQD").String())
}

func TestApplyBalanceDelta_UnknownCustomer(t *testing.T) {
	store := newTestStore(t)
	err := store.Repos().Customers.ApplyBalanceDelta(context.Background(), "nope",
		ledger.NewMoney(ledger.MustDecimal("10"), "USD"))
	assert.ErrorIs(t, err, pos.ErrNotFound)
}

func TestCustomer_Delete_RefusedWhileReferenced(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	require.NoError(t, store.Repos().Sales.Save(ctx, testSale(c.ID)))

	err := store.Repos().Customers.Delete(ctx, c.ID)
	assert.True(t, pos.IsValidation(err))

	_, err = store.Repos().Customers.FindByID(ctx, c.ID)
	assert.NoError(t, err)
}

func TestCustomer_Delete_RemovesBalances(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	require.NoError(t, store.Repos().Customers.ApplyBalanceDelta(ctx, c.ID,
		ledger.NewMoney(ledger.MustDecimal("10"), "USD")))

	require.NoError(t, store.Repos().Customers.Delete(ctx, c.ID))
	_, err := store.Repos().Customers.FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, pos.ErrNotFound)
}

// =============================================================================
// UNIT OF WORK
// =============================================================================

func TestWithTx_RollbackLeavesNoPartialState(t *testing.T) {
	// GIVEN: a transaction saving a sale and applying its balance delta
	// WHEN: the callback fails after both writes
	// THEN: neither the sale nor the balance change survives

	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	sale := testSale(c.ID)

	err := store.WithTx(ctx, func(r pos.Repositories) error {
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}
		if err := r.Customers.ApplyBalanceDelta(ctx, c.ID,
			ledger.NewMoney(ledger.MustDecimal("600"), "USD")); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = store.Repos().Sales.FindByID(ctx, sale.ID)
	assert.ErrorIs(t, err, pos.ErrNotFound)
	got, err := store.Repos().Customers.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance("USD").IsZero())
}

func TestWithTx_CommitPersistsBothWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	sale := testSale(c.ID)

	err := store.WithTx(ctx, func(r pos.Repositories) error {
		if err := r.Sales.Save(ctx, sale); err != nil {
			return err
		}
		return r.Customers.ApplyBalanceDelta(ctx, c.ID,
			ledger.NewMoney(ledger.MustDecimal("600"), "USD"))
	})
	require.NoError(t, err)

	got, err := store.Repos().Customers.FindByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "600", got.Balance("USD").String())
	_, err = store.Repos().Sales.FindByID(ctx, sale.ID)
	assert.NoError(t, err)
}

// =============================================================================
// SALES
// =============================================================================

func TestSale_RoundTripWithItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	sale := testSale(c.ID)
	require.NoError(t, store.Repos().Sales.Save(ctx, sale))

	got, err := store.Repos().Sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-100", got.InvoiceNumber)
	assert.Equal(t, "branch-a", got.Location)
	assert.True(t, got.FinalAmount.Equal(ledger.MustDecimal("1000")))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "p-1", got.Items[0].ProductID)
	assert.Equal(t, 10, got.Items[0].Quantity)
}

func TestSale_SaveTwice_UpdatesPaymentOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	sale := testSale(c.ID)
	require.NoError(t, store.Repos().Sales.Save(ctx, sale))

	sale.PaidAmount = sale.FinalAmount
	sale.PaymentStatus = pos.PaymentPaid
	require.NoError(t, store.Repos().Sales.Save(ctx, sale))

	got, err := store.Repos().Sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, pos.PaymentPaid, got.PaymentStatus)
	assert.True(t, got.PaidAmount.Equal(sale.FinalAmount))
	require.Len(t, got.Items, 1, "re-saving must not duplicate line items")
}

func TestSale_FindByCustomer_OrdersSubsecondTies(t *testing.T) {
	// GIVEN: two sales in the same second, the earlier one on a whole
	//        second and the later one 100ms after it
	// WHEN: listing by customer (ORDER BY created_at)
	// THEN: creation order holds; the stored timestamps are fixed-width
	//       so lexicographic order is chronological order

	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")

	base := time.Date(2025, time.March, 1, 12, 0, 5, 0, time.UTC)
	first := testSale(c.ID)
	first.CreatedAt = base
	second := testSale(c.ID)
	second.CreatedAt = base.Add(100 * time.Millisecond)
	require.NoError(t, store.Repos().Sales.Save(ctx, first))
	require.NoError(t, store.Repos().Sales.Save(ctx, second))

	sales, err := store.Repos().Sales.FindByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, first.ID, sales[0].ID)
	assert.Equal(t, second.ID, sales[1].ID)
}

func TestSale_Delete_CascadesItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	sale := testSale(c.ID)
	require.NoError(t, store.Repos().Sales.Save(ctx, sale))

	require.NoError(t, store.Repos().Sales.Delete(ctx, sale.ID))
	_, err := store.Repos().Sales.FindByID(ctx, sale.ID)
	assert.ErrorIs(t, err, pos.ErrNotFound)

	sales, err := store.Repos().Sales.FindByCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

// =============================================================================
// VOUCHERS
// =============================================================================

func TestVoucher_NextNumber_SequentialPerType(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	repo := store.Repos().Vouchers

	next := func(typ pos.VoucherType) int {
		n, err := repo.NextNumber(ctx, typ)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 1, next(pos.VoucherReceipt))
	assert.Equal(t, 2, next(pos.VoucherReceipt))
	assert.Equal(t, 1, next(pos.VoucherPayment))
	assert.Equal(t, 3, next(pos.VoucherReceipt))
}

func TestVoucher_RoundTrip_UnlinkedAndCancelled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	v := &pos.Voucher{
		ID:        uuid.NewString(),
		Type:      pos.VoucherReceipt,
		Number:    7,
		Amount:    ledger.MustDecimal("250"),
		Currency:  "IQD",
		Date:      time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC),
		Notes:     "cash drop",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Repos().Vouchers.Save(ctx, v))

	got, err := store.Repos().Vouchers.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CustomerID)
	assert.Equal(t, 7, got.Number)
	assert.False(t, got.Cancelled)

	v.Cancelled = true
	require.NoError(t, store.Repos().Vouchers.Save(ctx, v))
	got, err = store.Repos().Vouchers.FindByID(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, got.Cancelled)
}

// =============================================================================
// RETURNS
// =============================================================================

func TestReturn_RoundTripWithItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	sale := testSale(c.ID)
	require.NoError(t, store.Repos().Sales.Save(ctx, sale))

	ret := &pos.SaleReturn{
		ID:          uuid.NewString(),
		SaleID:      sale.ID,
		CustomerID:  c.ID,
		Date:        time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
		Currency:    "USD",
		TotalAmount: ledger.MustDecimal("200"),
		Status:      pos.ReturnCompleted,
		Reason:      "defective",
		CreatedAt:   time.Now().UTC(),
		Items: []pos.ReturnItem{
			{ID: uuid.NewString(), ProductID: "p-1", Quantity: 2, Condition: pos.ConditionUndamaged},
			{ID: uuid.NewString(), ProductID: "p-1", Quantity: 1, Condition: pos.ConditionDamaged},
		},
	}
	require.NoError(t, store.Repos().Returns.Save(ctx, ret))

	got, err := store.Repos().Returns.FindByID(ctx, ret.ID)
	require.NoError(t, err)
	assert.Equal(t, pos.ReturnCompleted, got.Status)
	assert.Equal(t, "200", got.TotalAmount.String())
	require.Len(t, got.Items, 2)
	assert.Equal(t, pos.ConditionDamaged, got.Items[1].Condition)

	rets, err := store.Repos().Returns.FindByCustomer(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, rets, 1)
}

func TestReturn_FindBySale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	c := saveCustomer(t, store, "Yusuf")
	saleA := testSale(c.ID)
	saleB := testSale(c.ID)
	require.NoError(t, store.Repos().Sales.Save(ctx, saleA))
	require.NoError(t, store.Repos().Sales.Save(ctx, saleB))

	save := func(saleID string) {
		require.NoError(t, store.Repos().Returns.Save(ctx, &pos.SaleReturn{
			ID: uuid.NewString(), SaleID: saleID, CustomerID: c.ID,
			Date: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC),
			Currency: "USD", TotalAmount: ledger.MustDecimal("10"),
			Status: pos.ReturnCompleted, CreatedAt: time.Now().UTC(),
		}))
	}
	save(saleA.ID)
	save(saleA.ID)
	save(saleB.ID)

	rets, err := store.Repos().Returns.FindBySale(ctx, saleA.ID)
	require.NoError(t, err)
	require.Len(t, rets, 2)
	for _, ret := range rets {
		assert.Equal(t, saleA.ID, ret.SaleID)
	}
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestInventory_DecreaseGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetStock(ctx, "p-1", 5))
	require.NoError(t, store.DecreaseStock(ctx, "p-1", 3))

	err := store.DecreaseStock(ctx, "p-1", 3)
	var stockErr *pos.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Available)

	n, err := store.Stock(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "a refused decrement must not change stock")

	require.NoError(t, store.IncreaseStock(ctx, "p-1", 4))
	n, err = store.Stock(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestInventory_UnknownProductReadsZero(t *testing.T) {
	store := newTestStore(t)
	n, err := store.Stock(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// =============================================================================
// SERVICE OVER SQLITE
// =============================================================================

// The store backs all three service collaborators at once: repositories,
// unit of work and inventory. One end-to-end pass proves the wiring.
func TestService_EndToEndOverSQLite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	svc := pos.NewService(store.Repos(), store, store, zerolog.Nop())

	c, err := svc.CreateCustomer(ctx, pos.CustomerInput{Name: "Yusuf"})
	require.NoError(t, err)
	require.NoError(t, store.SetStock(ctx, "p-1", 10))

	sale, err := svc.RecordSale(ctx, pos.SaleInput{
		CustomerID: c.ID,
		Date:       time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Currency:   "USD",
		PaidAmount: ledger.MustDecimal("400"),
		Items: []pos.SaleItemInput{
			{ProductID: "p-1", Quantity: 10, UnitPrice: ledger.MustDecimal("100")},
		},
	})
	require.NoError(t, err)

	got, err := svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "600", got.Balance("USD").String())

	items, err := svc.GenerateStatement(ctx, c.ID, pos.StatementRequest{Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].RunningBalance.Equal(got.Balance("USD")))

	require.NoError(t, svc.DeleteSale(ctx, sale.ID))
	got, err = svc.GetCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance("USD").IsZero())
	n, err := store.Stock(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}
