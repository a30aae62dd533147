package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"splitledger/internal/cache"
	"splitledger/internal/ledger"
	"splitledger/internal/models"
	"splitledger/internal/storage"
)

// ErrGroupNameRequired is returned when a group is created without a
// name.
var ErrGroupNameRequired = errors.New("group name is required")

// GroupService manages groups and their membership.
type GroupService struct {
	store    storage.Store
	balances *cache.Balances
}

// NewGroupService creates a group service. balances may be nil.
func NewGroupService(store storage.Store, balances *cache.Balances) *GroupService {
	return &GroupService{store: store, balances: balances}
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, callerID, name string) (*models.Group, error) {
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	group := &models.Group{Name: name, CreatedBy: callerID}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
	}

	slog.Info("Group created", "group_id", group.ID, "name", name, "created_by", callerID)
	return s.store.GetGroup(ctx, group.ID)
}

// GetGroup returns a group with its members. The caller must be a
// member.
func (s *GroupService) GetGroup(ctx context.Context, callerID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(callerID) {
		return nil, fmt.Errorf("user %s in group %s: %w", callerID, groupID, ledger.ErrNotAMember)
	}
	return group, nil
}

// AddMember adds an existing user, looked up by email, to the group.
// The caller must already be a member. Membership changes bump the
// ledger version, so any cached balance view goes stale.
func (s *GroupService) AddMember(ctx context.Context, callerID, groupID, email string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(callerID) {
		return nil, fmt.Errorf("user %s in group %s: %w", callerID, groupID, ledger.ErrNotAMember)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddGroupMember(ctx, groupID, user.ID); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
	}
	if s.balances != nil {
		s.balances.Invalidate(groupID)
	}

	slog.Info("Member added", "group_id", groupID, "user_id", user.ID, "added_by", callerID)
	return s.store.GetGroup(ctx, groupID)
}

// DeleteGroup removes a group and its whole ledger. The caller must
// be a member.
func (s *GroupService) DeleteGroup(ctx context.Context, callerID, groupID string) error {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.HasMember(callerID) {
		return fmt.Errorf("user %s in group %s: %w", callerID, groupID, ledger.ErrNotAMember)
	}

	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		return fmt.Errorf("%w: %w", ledger.ErrPersistence, err)
	}
	if s.balances != nil {
		s.balances.Invalidate(groupID)
	}

	slog.Info("Group deleted", "group_id", groupID, "deleted_by", callerID)
	return nil
}
