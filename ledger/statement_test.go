package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kervanji/HisabX-sub001/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func debit(d int, amount string, currency ledger.Currency) ledger.Event {
	return ledger.Event{
		Date:     day(d),
		Kind:     ledger.KindSaleInvoice,
		Debit:    ledger.MustDecimal(amount),
		Currency: currency,
	}
}

func credit(d int, amount string, currency ledger.Currency) ledger.Event {
	return ledger.Event{
		Date:     day(d),
		Kind:     ledger.KindReceiptVoucher,
		Credit:   ledger.MustDecimal(amount),
		Currency: currency,
	}
}

func usd(f ledger.Filter) ledger.Filter {
	f.Currency = "USD"
	return f
}

func balances(items []ledger.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.RunningBalance.String()
	}
	return out
}

// =============================================================================
// RUNNING BALANCE
// =============================================================================

func TestBuild_RunningBalance_AccumulatesDebitsMinusCredits(t *testing.T) {
	// GIVEN: a sale of 1000, a receipt of 400, another sale of 250
	// WHEN: building the full statement
	// THEN: balances run 1000 -> 600 -> 850

	events := []ledger.Event{
		debit(1, "1000", "USD"),
		credit(2, "400", "USD"),
		debit(3, "250", "USD"),
	}

	items, err := ledger.Build(events, usd(ledger.Filter{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"1000", "600", "850"}, balances(items))
}

func TestBuild_LastBalance_EqualsSumOfDeltas(t *testing.T) {
	events := []ledger.Event{
		debit(1, "300", "USD"),
		debit(2, "120.50", "USD"),
		credit(3, "99.25", "USD"),
		credit(4, "321.25", "USD"),
	}

	items, err := ledger.Build(events, usd(ledger.Filter{}))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Debit).Sub(it.Credit)
	}
	assert.True(t, items[len(items)-1].RunningBalance.Equal(sum),
		"last balance %s should equal sum of deltas %s",
		items[len(items)-1].RunningBalance, sum)
}

func TestBuild_SortsChronologically_StableForSameDate(t *testing.T) {
	// GIVEN: events supplied out of order, two sharing a date
	// WHEN: building the statement
	// THEN: output is date-ascending and same-date events keep input order

	first := debit(5, "10", "USD")
	second := credit(5, "4", "USD")
	events := []ledger.Event{
		debit(9, "100", "USD"),
		first,
		second,
		debit(1, "50", "USD"),
	}

	items, err := ledger.Build(events, usd(ledger.Filter{}))
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, day(1), items[0].Date)
	assert.Equal(t, day(5), items[1].Date)
	assert.Equal(t, day(5), items[2].Date)
	assert.Equal(t, day(9), items[3].Date)

	// Tie kept input order: the debit of 10 before the credit of 4.
	assert.True(t, items[1].Debit.Equal(ledger.MustDecimal("10")))
	assert.True(t, items[2].Credit.Equal(ledger.MustDecimal("4")))
}

func TestBuild_Deterministic_SameInputSameOutput(t *testing.T) {
	events := []ledger.Event{
		debit(3, "77", "USD"),
		credit(3, "12", "USD"),
		debit(1, "5", "USD"),
	}
	from := day(2)
	f := usd(ledger.Filter{From: &from})

	a, err := ledger.Build(events, f)
	require.NoError(t, err)
	b, err := ledger.Build(events, f)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// =============================================================================
// CURRENCY AND LOCATION FILTERING
// =============================================================================

func TestBuild_CurrencyRequired(t *testing.T) {
	_, err := ledger.Build(nil, ledger.Filter{})
	assert.ErrorIs(t, err, ledger.ErrCurrencyRequired)
}

func TestBuild_CurrencyFilter_DoesNotDisturbOtherCurrency(t *testing.T) {
	// GIVEN: interleaved USD and IQD events
	// WHEN: building the USD statement
	// THEN: IQD events are invisible and USD balances are unaffected

	events := []ledger.Event{
		debit(1, "100", "USD"),
		debit(1, "500000", "IQD"),
		credit(2, "40", "USD"),
		credit(3, "250000", "IQD"),
	}

	items, err := ledger.Build(events, usd(ledger.Filter{}))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []string{"100", "60"}, balances(items))
}

func TestBuild_LocationFilter_ExcludesOtherLocations(t *testing.T) {
	siteA := debit(1, "100", "USD")
	siteA.Location = "site-a"
	siteB := debit(2, "999", "USD")
	siteB.Location = "site-b"

	items, err := ledger.Build([]ledger.Event{siteA, siteB},
		usd(ledger.Filter{Location: "site-a"}))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "site-a", items[0].Location)
}

// =============================================================================
// OPENING BALANCE AND DATE WINDOW
// =============================================================================

func TestBuild_OpeningBalance_EqualsHistoryBeforeFrom(t *testing.T) {
	// GIVEN: 1000 debit on the 1st, 400 credit on the 2nd, 250 debit on the 10th
	// WHEN: requesting the statement from the 5th
	// THEN: opening row carries 600 and the windowed balances continue from it

	events := []ledger.Event{
		debit(1, "1000", "USD"),
		credit(2, "400", "USD"),
		debit(10, "250", "USD"),
	}
	from := day(5)

	items, err := ledger.Build(events, usd(ledger.Filter{From: &from}))
	require.NoError(t, err)
	require.Len(t, items, 2)

	opening := items[0]
	assert.True(t, opening.IsOpening())
	assert.Equal(t, "600", opening.RunningBalance.String())
	assert.True(t, opening.Date.Before(from))
	assert.True(t, opening.Debit.IsZero())
	assert.True(t, opening.Credit.IsZero())

	assert.Equal(t, "850", items[1].RunningBalance.String())
}

func TestBuild_WindowedBalances_MatchFullHistory(t *testing.T) {
	// The filtered sequence's final balance must equal the true balance
	// through 'to', computed over the unfiltered history.

	events := []ledger.Event{
		debit(1, "100", "USD"),
		debit(5, "200", "USD"),
		credit(8, "50", "USD"),
		debit(20, "1000", "USD"),
	}
	from, to := day(4), day(10)

	full, err := ledger.Build(events, usd(ledger.Filter{}))
	require.NoError(t, err)
	windowed, err := ledger.Build(events, usd(ledger.Filter{From: &from, To: &to}))
	require.NoError(t, err)

	// full[2] is the credit on the 8th, the last event inside the window
	assert.True(t, windowed[len(windowed)-1].RunningBalance.Equal(full[2].RunningBalance))
}

func TestBuild_FromWithNoEvents_StillEmitsOpeningRow(t *testing.T) {
	from := day(5)
	items, err := ledger.Build(nil, usd(ledger.Filter{From: &from}))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsOpening())
	assert.True(t, items[0].RunningBalance.IsZero())
}

func TestBuild_ToOnly_DropsLaterEvents(t *testing.T) {
	events := []ledger.Event{
		debit(1, "100", "USD"),
		debit(20, "999", "USD"),
	}
	to := day(10)

	items, err := ledger.Build(events, usd(ledger.Filter{To: &to}))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "100", items[0].RunningBalance.String())
}
