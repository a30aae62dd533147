package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine's validation and lookup failures.
// The API layer maps these to HTTP status codes; the engine never
// formats user-facing text.
var (
	// ErrInvalidAmount is returned when an amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be a positive number of minor units")

	// ErrInvalidExpense is returned when an expense has no participants.
	ErrInvalidExpense = errors.New("expense requires at least one participant")

	// ErrInvalidSettlement is returned for a self-transfer.
	ErrInvalidSettlement = errors.New("settlement payer and recipient must differ")

	// ErrNotAMember is returned when a referenced user is not a member
	// of the group.
	ErrNotAMember = errors.New("not a member of the group")

	// ErrNotFound is returned for an unknown group, user or expense.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is not permitted to
	// perform the operation (e.g., deleting someone else's expense).
	ErrForbidden = errors.New("operation not permitted")

	// ErrPersistence wraps a store-level failure. The underlying error
	// is preserved unchanged for the caller; the engine never retries.
	ErrPersistence = errors.New("persistence failure")
)

// InvariantViolationError reports that a group's recomputed balances
// did not sum to zero. This is never a user input problem: it signals
// ledger corruption or a logic defect, is fatal to the request, and
// must be logged rather than swallowed.
type InvariantViolationError struct {
	GroupID string
	Sum     int64
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("balance invariant violated for group %s: net balances sum to %d, want 0", e.GroupID, e.Sum)
}
