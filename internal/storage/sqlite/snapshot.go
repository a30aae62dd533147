package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// LedgerSnapshot reads everything balance computation needs (the
// member list, every expense with its participants, and every
// settlement) inside one transaction, together with the ledger
// version those rows correspond to. A concurrent append lands either
// entirely before or entirely after this read; half an entry's
// effects can never leak into the snapshot.
func (s *SQLiteStore) LedgerSnapshot(ctx context.Context, groupID string) (*models.LedgerSnapshot, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	snap := &models.LedgerSnapshot{GroupID: groupID}

	err = tx.QueryRowContext(ctx,
		"SELECT ledger_version FROM groups WHERE id = ?", groupID,
	).Scan(&snap.Version)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("group %s: %w", groupID, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger version: %w", err)
	}

	memberRows, err := tx.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY user_id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var id string
		if err := memberRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		snap.MemberIDs = append(snap.MemberIDs, id)
	}
	if err := memberRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	expenseRows, err := tx.QueryContext(ctx,
		`SELECT id, group_id, description, amount, payer_id, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read expenses: %w", err)
	}
	defer expenseRows.Close()
	for expenseRows.Next() {
		var e models.Expense
		if err := expenseRows.Scan(&e.ID, &e.GroupID, &e.Description, &e.Amount,
			&e.PayerID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := expenseRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for i := range snap.Expenses {
		participants, err := s.expenseParticipants(ctx, tx, snap.Expenses[i].ID)
		if err != nil {
			return nil, err
		}
		snap.Expenses[i].ParticipantIDs = participants
	}

	settlementRows, err := tx.QueryContext(ctx,
		`SELECT id, group_id, from_user_id, to_user_id, amount, created_at
		 FROM settlements WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read settlements: %w", err)
	}
	defer settlementRows.Close()
	for settlementRows.Next() {
		var st models.Settlement
		if err := settlementRows.Scan(&st.ID, &st.GroupID, &st.FromUserID,
			&st.ToUserID, &st.Amount, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		snap.Settlements = append(snap.Settlements, st)
	}
	if err := settlementRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot transaction: %w", err)
	}

	return snap, nil
}
