// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"splitledger/internal/models"
)

// Store defines the interface for ledger storage operations. This
// abstraction keeps the service layer independent of the backend
// (SQLite today, PostgreSQL later) and lets engine tests run against
// a throwaway database.
//
// All writes are atomic: either the whole entry (including its ledger
// version bump) is visible, or none of it is. Lookup methods return an
// error wrapping ledger.ErrNotFound for unknown IDs.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateGroup persists a new group with its creator as the first
	// member. The group's ID and CreatedAt are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its full membership list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// DeleteGroup removes a group and its entire ledger.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember adds an existing user to a group. Adding a user
	// who is already a member is a no-op.
	AddGroupMember(ctx context.Context, groupID, userID string) error

	// IsGroupMember reports whether userID belongs to groupID.
	// Returns ledger.ErrNotFound if the group does not exist.
	IsGroupMember(ctx context.Context, groupID, userID string) (bool, error)

	// CreateExpense appends an expense with its participant set as one
	// atomic write. ID and CreatedAt are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its participants.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// DeleteExpense hard-deletes an expense and its participant rows.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup returns a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// CreateSettlement appends a settlement. ID and CreatedAt are
	// populated by the store.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// ListSettlementsByGroup returns a group's settlements, newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// LedgerVersion returns the group's current ledger version without
	// reading the ledger itself.
	LedgerVersion(ctx context.Context, groupID string) (int64, error)

	// LedgerSnapshot reads the group's members, expenses and
	// settlements inside a single transaction, so the result reflects
	// one consistent point in the ledger's history.
	LedgerSnapshot(ctx context.Context, groupID string) (*models.LedgerSnapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
