/*
errors.go - Centralized error types for the pos domain

PURPOSE:
  All domain error types in one place. Three families matter to callers:
  validation (reject before any mutation), not-found (abort, no partial
  effects), and reconciliation (the one failure state where a record and
  a balance effect diverged and the caller MUST react).

RECONCILIATION ERRORS:
  The single most important bug class in this system is a balance step
  failing after its record was persisted and the failure being dropped
  to a log line. ReconciliationError exists so that can never happen
  silently: it is returned up the call stack and mapped to a distinct
  HTTP status, never downgraded to a warning.

USAGE:
  if pos.IsNotFound(err) { ... 404 ... }
  var rec *pos.ReconciliationError
  if errors.As(err, &rec) { ... repair path ... }

SEE ALSO:
  - service.go: Raises these errors
  - api/handlers.go: Maps them to HTTP statuses
*/
package pos

import (
	"errors"
	"fmt"

	"github.com/kervanji/HisabX-sub001/ledger"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientStock is returned when a sale asks for more units
	// than inventory holds. Wrapped by InsufficientStockError.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrReconciliation is the root of all reconciliation failures.
	ErrReconciliation = errors.New("ledger reconciliation failed")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports a rejected input field. Raised before any
// mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// InsufficientStockError reports a stock shortage for one product.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// ReconciliationError reports that a primary record and its side effects
// diverged: the record was persisted (or removed) but a compensating
// step could not be applied. The customer's books need repair.
type ReconciliationError struct {
	Op         string // operation that failed, e.g. "record-sale"
	CustomerID string
	Delta      ledger.Money // the balance or stock effect left unapplied
	Cause      error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation failed in %s for customer %s (unapplied %s): %v",
		e.Op, e.CustomerID, e.Delta, e.Cause)
}

func (e *ReconciliationError) Unwrap() error { return ErrReconciliation }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether the error is a rejected input, including
// stock shortages (the caller asked for something impossible).
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInsufficientStock)
}

// IsReconciliation reports whether the books need repair.
func IsReconciliation(err error) bool { return errors.Is(err, ErrReconciliation) }
