/*
errors.go - Errors raised by the ledger engine

PURPOSE:
  Sentinel and structured errors for statement construction. Domain
  packages wrap these with additional context where useful.

USAGE:
  if errors.Is(err, ledger.ErrCurrencyRequired) {
      // caller forgot the mandatory currency filter
  }

SEE ALSO:
  - statement.go: Raises ErrCurrencyRequired
  - money.go: Raises CurrencyMismatchError
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCurrencyRequired is returned when a statement is requested without
	// a currency. The currency filter is mandatory: a statement always
	// belongs to exactly one currency partition.
	ErrCurrencyRequired = errors.New("currency is required")

	// ErrCurrencyMismatch is returned when arithmetic mixes two currencies.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CurrencyMismatchError reports an attempted cross-currency operation.
type CurrencyMismatchError struct {
	Left  Currency
	Right Currency
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("currency mismatch: %s vs %s", e.Left, e.Right)
}

func (e *CurrencyMismatchError) Unwrap() error {
	return ErrCurrencyMismatch
}
