// Package events publishes ledger change notifications. Publishing is
// best-effort: a failed publish is logged by the caller and never
// fails the request, since the ledger itself is the source of truth.
package events

import (
	"context"

	"splitledger/internal/models"
)

// Publisher emits an event for every ledger write.
type Publisher interface {
	ExpenseCreated(ctx context.Context, expense *models.Expense) error
	ExpenseDeleted(ctx context.Context, expense *models.Expense) error
	SettlementRecorded(ctx context.Context, settlement *models.Settlement) error
	Close() error
}

// Nop is the publisher used when no broker is configured.
type Nop struct{}

func (Nop) ExpenseCreated(context.Context, *models.Expense) error        { return nil }
func (Nop) ExpenseDeleted(context.Context, *models.Expense) error        { return nil }
func (Nop) SettlementRecorded(context.Context, *models.Settlement) error { return nil }
func (Nop) Close() error                                                 { return nil }
