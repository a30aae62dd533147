package ledger

import (
	"sort"

	"splitledger/internal/models"
)

// party is one side of the netting: a member and their remaining
// unsettled magnitude (always positive).
type party struct {
	id        string
	remaining int64
}

// Simplify reduces a balance map to a short list of transfers that
// would zero every balance.
//
// Greedy largest-pair netting: repeatedly match the largest-magnitude
// creditor with the largest-magnitude debtor and transfer
// min(creditor, debtor). Whichever side hits zero drops out; the other
// is re-ranked before the next match. Members with balance exactly
// zero never appear in the output, and a fully settled group yields an
// empty list.
//
// The result is a heuristic, not a proven minimum (exact minimum
// transaction netting is NP-hard), but it emits at most one transfer
// fewer than the number of members with a nonzero balance. Ordering is
// fully deterministic: magnitude descending, member ID ascending on
// ties, so identical balance maps always produce byte-identical
// output.
func Simplify(balances map[string]int64) []models.Transfer {
	var creditors, debtors []party
	for id, b := range balances {
		switch {
		case b > 0:
			creditors = append(creditors, party{id: id, remaining: b})
		case b < 0:
			debtors = append(debtors, party{id: id, remaining: -b})
		}
	}

	transfers := make([]models.Transfer, 0, len(creditors)+len(debtors))
	for len(creditors) > 0 && len(debtors) > 0 {
		rank(creditors)
		rank(debtors)

		cr, db := &creditors[0], &debtors[0]
		amount := min(cr.remaining, db.remaining)

		transfers = append(transfers, models.Transfer{
			FromUserID: db.id,
			ToUserID:   cr.id,
			Amount:     amount,
		})

		cr.remaining -= amount
		db.remaining -= amount
		if cr.remaining == 0 {
			creditors = creditors[1:]
		}
		if db.remaining == 0 {
			debtors = debtors[1:]
		}
	}

	return transfers
}

// rank orders parties by remaining magnitude descending, breaking ties
// by member ID ascending.
func rank(parties []party) {
	sort.Slice(parties, func(i, j int) bool {
		if parties[i].remaining != parties[j].remaining {
			return parties[i].remaining > parties[j].remaining
		}
		return parties[i].id < parties[j].id
	})
}
