// Package service implements the application services the API layer
// calls into: ledger operations (balances, expenses, settlements),
// group management and authentication. Services own validation rules
// and cache invalidation; pure computation lives in internal/ledger.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"splitledger/internal/cache"
	"splitledger/internal/events"
	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/storage"
)

var (
	balanceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_balance_cache_hits_total",
		Help: "Balance queries served from the version-checked cache.",
	})
	balanceCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "splitledger_balance_cache_misses_total",
		Help: "Balance queries that recomputed from a fresh snapshot.",
	})
)

// LedgerService exposes the engine's operations over a Store. It is
// safe for concurrent use; the only shared mutable state is the
// store itself and the version-checked balance cache.
type LedgerService struct {
	store     storage.Store
	balances  *cache.Balances
	publisher events.Publisher
	group     singleflight.Group
}

// NewLedgerService creates a ledger service. balances may be nil to
// disable caching; publisher may be events.Nop{}.
func NewLedgerService(store storage.Store, balances *cache.Balances, publisher events.Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		balances:  balances,
		publisher: publisher,
	}
}

// Balances returns the group's net balances and the simplifier's
// suggested transfers, as of one consistent ledger snapshot. The
// caller must be a member of the group.
//
// A cached view is served only when its ledger version matches the
// store's current version, so cached and fresh responses are
// indistinguishable. Concurrent recomputations for the same group are
// collapsed into one.
func (s *LedgerService) Balances(ctx context.Context, callerID, groupID string) (*cache.BalanceView, error) {
	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}

	v, err, _ := s.group.Do(groupID, func() (interface{}, error) {
		return s.balanceView(ctx, groupID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*cache.BalanceView), nil
}

func (s *LedgerService) balanceView(ctx context.Context, groupID string) (*cache.BalanceView, error) {
	if s.balances != nil {
		if view, ok := s.balances.Get(groupID); ok {
			version, err := s.store.LedgerVersion(ctx, groupID)
			if err != nil {
				return nil, err
			}
			if view.Version == version {
				balanceCacheHits.Inc()
				return view, nil
			}
		}
	}
	balanceCacheMisses.Inc()

	snap, err := s.store.LedgerSnapshot(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := ledger.ComputeBalances(snap)
	if err != nil {
		// A nonzero sum means ledger corruption, not bad input. Log
		// loudly and fail the request.
		slog.Error("Balance invariant violated", "group_id", groupID, "error", err)
		return nil, err
	}

	view := &cache.BalanceView{
		GroupID:   groupID,
		Version:   snap.Version,
		Balances:  balances,
		Transfers: ledger.Simplify(balances),
	}
	if s.balances != nil {
		s.balances.Set(view)
	}
	return view, nil
}

// AddExpense validates and appends an expense paid by callerID, split
// equally among participantIDs. Amount is in minor units.
func (s *LedgerService) AddExpense(ctx context.Context, callerID, groupID, description string, amount int64, participantIDs []string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if description == "" || len(participantIDs) == 0 {
		return nil, ledger.ErrInvalidExpense
	}
	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	for _, id := range participantIDs {
		if err := s.requireMember(ctx, groupID, id); err != nil {
			return nil, err
		}
	}

	expense := &models.Expense{
		GroupID:        groupID,
		Description:    description,
		Amount:         amount,
		PayerID:        callerID,
		ParticipantIDs: dedupe(participantIDs),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
	}

	s.invalidate(groupID)
	if err := s.publisher.ExpenseCreated(ctx, expense); err != nil {
		slog.Warn("Failed to publish expense event", "expense_id", expense.ID, "error", err)
	}

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", groupID,
		"payer_id", callerID,
		"amount", amount,
		"participants", len(expense.ParticipantIDs),
	)
	return expense, nil
}

// DeleteExpense hard-deletes an expense. Only the payer may delete;
// balances are recomputed from the remaining ledger on the next
// query, never patched incrementally.
func (s *LedgerService) DeleteExpense(ctx context.Context, callerID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.PayerID != callerID {
		return ledger.ErrForbidden
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
	}

	s.invalidate(expense.GroupID)
	if err := s.publisher.ExpenseDeleted(ctx, expense); err != nil {
		slog.Warn("Failed to publish expense event", "expense_id", expenseID, "error", err)
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "group_id", expense.GroupID)
	return nil
}

// RecordSettlement validates and appends a settlement: callerID paid
// amount to toUserID. Validation order is fixed and the first failure
// wins: positive amount, both parties members, no self-transfer.
//
// The recorder deliberately does not check the payment against the
// current debt graph: any member may pay any other member any
// positive amount, and an overpayment simply shows up as a reversed
// balance on the next query. That keeps the write O(1).
func (s *LedgerService) RecordSettlement(ctx context.Context, callerID, groupID, toUserID string, amount int64) (*models.Settlement, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, groupID, toUserID); err != nil {
		return nil, err
	}
	if callerID == toUserID {
		return nil, ledger.ErrInvalidSettlement
	}

	settlement := &models.Settlement{
		GroupID:    groupID,
		FromUserID: callerID,
		ToUserID:   toUserID,
		Amount:     amount,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
	}

	// Invalidate before returning so no caller can observe a stale
	// view after a write they performed.
	s.invalidate(groupID)
	if err := s.publisher.SettlementRecorded(ctx, settlement); err != nil {
		slog.Warn("Failed to publish settlement event", "settlement_id", settlement.ID, "error", err)
	}

	slog.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"group_id", groupID,
		"from_user_id", callerID,
		"to_user_id", toUserID,
		"amount", amount,
	)
	return settlement, nil
}

// ListExpenses returns a group's expenses; the caller must be a member.
func (s *LedgerService) ListExpenses(ctx context.Context, callerID, groupID string) ([]*models.Expense, error) {
	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// ListSettlements returns a group's persisted settlements; the caller
// must be a member.
func (s *LedgerService) ListSettlements(ctx context.Context, callerID, groupID string) ([]*models.Settlement, error) {
	if err := s.requireMember(ctx, groupID, callerID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

func (s *LedgerService) requireMember(ctx context.Context, groupID, userID string) error {
	ok, err := s.store.IsGroupMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s in group %s: %w", userID, groupID, ledger.ErrNotAMember)
	}
	return nil
}

func (s *LedgerService) invalidate(groupID string) {
	if s.balances != nil {
		s.balances.Invalidate(groupID)
	}
}

// dedupe returns the IDs with duplicates removed, order preserved.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
