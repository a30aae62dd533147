package models

// Member is a user's identity within a group: the opaque user ID plus
// the display fields the API returns alongside balances.
type Member struct {
	ID          string
	DisplayName string
	Email       string
}

// Group represents a set of members sharing expenses.
// Membership is append-only: members can be added but not removed.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// CreatedBy is the user ID of the group's creator, who is always
	// its first member.
	CreatedBy string

	// Members is the current membership list, ordered by user ID.
	Members []Member

	// LedgerVersion increments on every ledger write to this group
	// (expense created or deleted, settlement recorded, member added).
	// It keys cached balance views.
	LedgerVersion int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID is in the membership list.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}
