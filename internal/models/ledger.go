package models

// Transfer is a suggested payment produced by the debt simplifier.
// It is advice, not a persisted record; recording the actual payment
// is a Settlement write.
type Transfer struct {
	FromUserID string
	ToUserID   string
	Amount     int64
}

// LedgerSnapshot is one consistent view of a group's ledger: the
// membership list and every expense and settlement row, read together
// inside a single transaction, plus the ledger version they correspond
// to. Balance computation consumes snapshots only, so a concurrent
// write can never expose half of an entry's effects.
type LedgerSnapshot struct {
	GroupID     string
	Version     int64
	MemberIDs   []string
	Expenses    []Expense
	Settlements []Settlement
}
