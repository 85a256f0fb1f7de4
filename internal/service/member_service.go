package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

// MemberService manages list memberships. Callers are expected to run
// the list authorization check before any of these operations.
type MemberService struct {
	store storage.Store
}

// NewMemberService creates a new MemberService with the given storage
// backend.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{store: store}
}

// AddMembers grants the given users membership of the list. Every id
// must reference an existing user, otherwise the whole call fails with
// a NotFoundError naming the missing ids and nothing is written. The
// list owner cannot be added. Duplicate pairs are absorbed by the
// storage key constraint, so the call is idempotent.
func (s *MemberService) AddMembers(ctx context.Context, listID int64, userIDs []int64) ([]*models.User, error) {
	ownerID, _, err := s.store.GetListAccess(ctx, listID)
	if err != nil {
		return nil, err
	}
	if slices.Contains(userIDs, ownerID) {
		return nil, Validationf("owner cannot be added as a member")
	}

	missing, err := missingUserIDs(ctx, s.store, userIDs)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, storage.NotFound("users", fmt.Sprint(missing))
	}

	if err := s.store.AddMembers(ctx, listID, userIDs); err != nil {
		return nil, err
	}
	slog.Info("members added", "list_id", listID, "user_ids", userIDs)

	// Return the projections of the named members, whether this call
	// inserted them or an earlier one did.
	members, err := s.store.ListMembers(ctx, listID)
	if err != nil {
		return nil, err
	}
	named := make([]*models.User, 0, len(userIDs))
	for _, member := range members {
		if slices.Contains(userIDs, member.ID) {
			named = append(named, member)
		}
	}
	return named, nil
}

// RemoveMember revokes a user's membership by the composite
// (list, user) key. Fails with a NotFoundError when the pair does not
// exist.
func (s *MemberService) RemoveMember(ctx context.Context, listID, userID int64) (*models.User, error) {
	member, err := s.store.RemoveMember(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	slog.Info("member removed", "list_id", listID, "user_id", userID)
	return member, nil
}

// ListMembers returns the public projections of a list's members.
func (s *MemberService) ListMembers(ctx context.Context, listID int64) ([]*models.User, error) {
	return s.store.ListMembers(ctx, listID)
}

// ListMemberIDs returns the member user ids of a list.
func (s *MemberService) ListMemberIDs(ctx context.Context, listID int64) ([]int64, error) {
	_, memberIDs, err := s.store.GetListAccess(ctx, listID)
	return memberIDs, err
}
