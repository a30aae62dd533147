// Package ledger implements the balance aggregation and debt
// simplification engine: pure functions that fold a group's ledger
// snapshot into exact per-member net balances and reduce those
// balances to a short list of suggested transfers.
//
// All arithmetic is int64 minor currency units. Every function here is
// side-effect free and deterministic: the same input always produces
// byte-identical output, which makes balance responses cacheable and
// the engine testable without a store.
package ledger

import "sort"

// EqualShares splits amount equally among participantIDs and returns
// each participant's share in minor units.
//
// Integer division leaves a remainder of up to len(participantIDs)-1
// minor units; losing or duplicating it would break the zero-sum
// invariant. The full remainder is assigned to the payer when the
// payer participates, otherwise to the first participant in ascending
// ID order. The assignment is deterministic so repeated computations
// over the same ledger agree exactly.
func EqualShares(amount int64, payerID string, participantIDs []string) map[string]int64 {
	if amount <= 0 || len(participantIDs) == 0 {
		return nil
	}

	ids := make([]string, len(participantIDs))
	copy(ids, participantIDs)
	sort.Strings(ids)

	base := amount / int64(len(ids))
	remainder := amount % int64(len(ids))

	shares := make(map[string]int64, len(ids))
	for _, id := range ids {
		shares[id] = base
	}

	if remainder > 0 {
		carrier := ids[0]
		if _, ok := shares[payerID]; ok {
			carrier = payerID
		}
		shares[carrier] += remainder
	}

	return shares
}
