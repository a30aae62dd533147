package models

// Settlement records a peer-to-peer payment between group members:
// FromUserID transferred Amount to ToUserID, reducing what the payer
// owes the group. Settlements are append-only and never mutated or
// deleted.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// GroupID is the group whose ledger this settlement belongs to.
	GroupID string

	// FromUserID is the user who paid (the debtor settling up).
	FromUserID string

	// ToUserID is the user who received the payment.
	ToUserID string

	// Amount is the payment amount in minor currency units. Always
	// positive. A payment larger than the actual debt is accepted and
	// simply reverses the balance between the two members.
	Amount int64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64
}
