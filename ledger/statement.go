/*
statement.go - Statement construction and running balance

PURPOSE:
  Turns a bag of normalized events into an ordered account statement.
  This is the heart of the ledger engine: currency partitioning, stable
  chronological ordering, running balance accumulation, and the synthetic
  opening-balance row for windowed statements.

ALGORITHM:
  1. Drop events not matching the requested currency (mandatory) and,
     if given, the project/location filter
  2. Stable-sort by date; same-date events keep their source order
  3. Single left-to-right scan: balance += debit - credit
  4. If a start date is given, synthesize an opening row carrying the
     balance accumulated strictly before it
  5. Window-filter using the PRE-FILTER balance stream, so the filtered
     output's balances are numerically identical to the full history

WHY PRE-FILTER BALANCES?
  A statement for March must start from everything that happened before
  March. If balances were recomputed over only the windowed events, the
  opening balance would be lost and every row would be wrong by exactly
  that amount. Computing balances once over the full history and then
  windowing guarantees: opening balance == cumulative effect before
  'from', and the last row's balance == true balance through 'to'.

DETERMINISM:
  Given the same events and filter, Build returns an identical sequence.
  The sort is stable and ties are never reordered.

SEE ALSO:
  - event.go: Event and Item types
  - pos/service.go: Fetches records and applies adapters before calling Build
*/
package ledger

import (
	"sort"
	"time"
)

// =============================================================================
// FILTER - Statement selection criteria
// =============================================================================

// Filter narrows a statement. Currency is mandatory; everything else is
// optional. From/To bound the visible window, not the balance computation.
type Filter struct {
	Currency Currency
	Location string
	From     *time.Time
	To       *time.Time
}

// =============================================================================
// BUILD - Events in, ordered statement out
// =============================================================================

// Build constructs the statement for one currency partition.
//
// The returned items are ordered chronologically with running balances
// stamped from the full (unwindowed) history. When f.From is set the first
// item is a synthetic opening-balance row dated one tick before f.From.
func Build(events []Event, f Filter) ([]Item, error) {
	if f.Currency == "" {
		return nil, ErrCurrencyRequired
	}

	// 1. Currency and location filtering.
	matched := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Currency != f.Currency {
			continue
		}
		if f.Location != "" && e.Location != f.Location {
			continue
		}
		matched = append(matched, e)
	}

	// 2. Stable chronological order. Same-timestamp events keep the order
	// they were supplied in; an unstable sort here would make statements
	// non-deterministic.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Date.Before(matched[j].Date)
	})

	// 3. Running balance over the FULL history.
	items := make([]Item, len(matched))
	balance := MustDecimal("0")
	for i, e := range matched {
		balance = balance.Add(e.Delta())
		items[i] = Item{Event: e, RunningBalance: balance}
	}

	if f.From == nil && f.To == nil {
		return items, nil
	}

	// 4. Opening balance: last running balance strictly before 'from'.
	var out []Item
	if f.From != nil {
		opening := MustDecimal("0")
		for _, it := range items {
			if !it.Date.Before(*f.From) {
				break
			}
			opening = it.RunningBalance
		}
		out = append(out, Item{
			Event: Event{
				Date:        f.From.Add(-time.Nanosecond),
				Kind:        KindOpeningBalance,
				Description: "previous balance",
				Currency:    f.Currency,
			},
			RunningBalance: opening,
		})
	}

	// 5. Window filter, keeping the pre-filter balances.
	for _, it := range items {
		if f.From != nil && it.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && it.Date.After(*f.To) {
			continue
		}
		out = append(out, it)
	}
	if out == nil {
		out = []Item{}
	}
	return out, nil
}
