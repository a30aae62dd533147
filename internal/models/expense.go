package models

// Expense records one payer covering a cost that is split equally
// among its participants. Expenses are immutable once created; the
// only permitted mutation is a hard delete by the payer, after which
// balances are recomputed from the remaining ledger.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Groceries").
	Description string

	// Amount is the full expense amount in minor currency units.
	// Always positive.
	Amount int64

	// PayerID is the user who paid the full amount.
	PayerID string

	// ParticipantIDs are the users the amount is split among, in
	// ascending ID order. The payer is usually, but not necessarily,
	// included.
	ParticipantIDs []string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
