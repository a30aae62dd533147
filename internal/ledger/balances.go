package ledger

import "splitledger/internal/models"

// ComputeBalances folds a ledger snapshot into one net balance per
// member. Positive means the group owes the member; negative means the
// member owes the group.
//
// Every known member starts at zero. Each expense credits the payer by
// the full amount and debits every participant by their equal share,
// so a payer who also participates nets out automatically. Each
// settlement credits the payer (they discharged debt) and debits the
// recipient (less is now owed to them). Every entry contributes a
// matched credit/debit pair, so the returned balances sum to exactly
// zero for any ledger state.
//
// The fold is order-independent and performs no I/O. If the sum
// nevertheless deviates from zero the snapshot is corrupt and an
// *InvariantViolationError is returned instead of a silently wrong
// result.
func ComputeBalances(snap *models.LedgerSnapshot) (map[string]int64, error) {
	balances := make(map[string]int64, len(snap.MemberIDs))
	for _, id := range snap.MemberIDs {
		balances[id] = 0
	}

	// Members referenced by ledger rows but missing from the member
	// list (which should not happen, since writes validate membership)
	// are still tracked, so their credits and debits stay paired.
	touch := func(id string) {
		if _, ok := balances[id]; !ok {
			balances[id] = 0
		}
	}

	for i := range snap.Expenses {
		exp := &snap.Expenses[i]
		shares := EqualShares(exp.Amount, exp.PayerID, exp.ParticipantIDs)
		if shares == nil {
			continue
		}

		touch(exp.PayerID)
		balances[exp.PayerID] += exp.Amount

		for id, share := range shares {
			touch(id)
			balances[id] -= share
		}
	}

	for i := range snap.Settlements {
		s := &snap.Settlements[i]
		touch(s.FromUserID)
		touch(s.ToUserID)
		balances[s.FromUserID] += s.Amount
		balances[s.ToUserID] -= s.Amount
	}

	var sum int64
	for _, b := range balances {
		sum += b
	}
	if sum != 0 {
		return nil, &InvariantViolationError{GroupID: snap.GroupID, Sum: sum}
	}

	return balances, nil
}
