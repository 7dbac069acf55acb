/*
Package ledger provides the customer ledger engine.

PURPOSE:
  This package contains the types and algorithms that turn heterogeneous
  financial events (sale invoices, cash vouchers, merchandise returns) into
  a chronologically ordered account statement with a running balance per
  currency. It knows nothing about how sales or vouchers are persisted -
  domain packages feed it normalized events.

KEY CONCEPTS IN THIS FILE (money.go):
  - Currency: ISO-style currency code ("USD", "IQD")
  - Money: a decimal amount paired with its currency

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point errors
  2. Partitioning: All arithmetic is per-currency; cross-currency sums
     are a programming error, never a silent conversion
  3. Purity: Nothing in this package touches storage or I/O

USAGE:
  debt := ledger.NewMoney(decimal.NewFromInt(600), "USD")
  debt = debt.Add(ledger.NewMoney(decimal.NewFromInt(200), "USD"))

SEE ALSO:
  - event.go: Normalized ledger events and statement items
  - statement.go: Statement construction and running balance
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CURRENCY - Partition key for all ledger arithmetic
// =============================================================================

type Currency string

// BaseCurrency is the fallback currency used when an event's source record
// lost its currency link (e.g. a return whose sale was deleted).
const BaseCurrency Currency = "IQD"

// =============================================================================
// MONEY - Decimal amount with currency
// =============================================================================

type Money struct {
	Amount   decimal.Decimal
	Currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

func Zero(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// MustDecimal parses a decimal literal, returning zero on malformed input.
// Intended for constants in wiring and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Add returns m + other. Both operands must share a currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Both operands must share a currency.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, &CurrencyMismatchError{Left: m.Currency, Right: other.Currency}
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Neg() Money { return Money{Amount: m.Amount.Neg(), Currency: m.Currency} }

func (m Money) IsZero() bool { return m.Amount.IsZero() }

func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

func (m Money) IsPositive() bool { return m.Amount.IsPositive() }

func (m Money) String() string {
	return m.Amount.String() + " " + string(m.Currency)
}

// PaymentEpsilon bounds the rounding slack allowed when comparing a sale's
// paid amount against its final amount.
var PaymentEpsilon = MustDecimal("0.0001")

// CoversWithinEpsilon reports whether paid >= due - epsilon.
func CoversWithinEpsilon(paid, due decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(due.Sub(PaymentEpsilon))
}
