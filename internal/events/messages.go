package events

import (
	"encoding/json"
	"time"
)

// Event types carried on the ledger exchange.
const (
	TypeExpenseCreated     = "expense.created"
	TypeExpenseDeleted     = "expense.deleted"
	TypeSettlementRecorded = "settlement.recorded"
)

// LedgerEvent is the wire format for ledger change notifications.
// Consumers treat it as a cache-invalidation hint and re-query the
// API for truth; amounts are included for audit trails only.
type LedgerEvent struct {
	Type       string `json:"type"`
	GroupID    string `json:"group_id"`
	EntryID    string `json:"entry_id"`
	Amount     int64  `json:"amount_minor_units"`
	OccurredAt int64  `json:"occurred_at"`
}

func newLedgerEvent(eventType, groupID, entryID string, amount int64) *LedgerEvent {
	return &LedgerEvent{
		Type:       eventType,
		GroupID:    groupID,
		EntryID:    entryID,
		Amount:     amount,
		OccurredAt: time.Now().Unix(),
	}
}

// ToJSON serializes the event for publishing.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON deserializes a published event.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
