package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

// ListService orchestrates the lifecycle of lists and their items and
// carries the authorization check every list-scoped operation runs
// behind.
type ListService struct {
	store storage.Store
}

// NewListService creates a new ListService with the given storage
// backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// Authorize checks that the principal may access the given list:
// admins always may, everyone else needs to own it or be a member.
// Returns a NotFoundError when the list does not exist and
// ErrNotAuthorized when the principal has no grant. Membership can
// change between requests, so this runs once per request just before
// the guarded operation.
func (s *ListService) Authorize(ctx context.Context, listID int64, p models.Principal) error {
	ownerID, memberIDs, err := s.store.GetListAccess(ctx, listID)
	if err != nil {
		return err
	}

	if p.IsAdmin() || p.ID == ownerID || slices.Contains(memberIDs, p.ID) {
		return nil
	}

	slog.Warn("list access denied", "list_id", listID, "user_id", p.ID)
	return ErrNotAuthorized
}

// ItemInput carries the fields of a new list item.
type ItemInput struct {
	Title  string `json:"title"`
	Amount int64  `json:"amount"`
}

// CreateListInput carries the fields of a new list, optionally with
// initial items and members.
type CreateListInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Items       []ItemInput `json:"items"`
	MemberIDs   []int64     `json:"member_ids"`
}

// Create creates a list owned by the acting principal, together with
// any initial items and memberships, as one atomic write. All member
// ids must reference existing users and must not include the owner.
func (s *ListService) Create(ctx context.Context, p models.Principal, in CreateListInput) (*models.List, error) {
	if slices.Contains(in.MemberIDs, p.ID) {
		return nil, Validationf("owner cannot be added as a member")
	}

	if len(in.MemberIDs) > 0 {
		missing, err := missingUserIDs(ctx, s.store, in.MemberIDs)
		if err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			return nil, storage.NotFound("users", fmt.Sprint(missing))
		}
	}

	items := make([]storage.ItemFields, 0, len(in.Items))
	for _, item := range in.Items {
		if item.Amount <= 0 {
			return nil, Validationf("item amount must be positive")
		}
		items = append(items, storage.ItemFields{Title: item.Title, Amount: item.Amount})
	}

	list, err := s.store.CreateList(ctx, p.ID,
		storage.ListFields{Title: in.Title, Description: in.Description},
		items, in.MemberIDs)
	if err != nil {
		return nil, err
	}

	slog.Info("list created", "list_id", list.ID, "owner_id", p.ID,
		"items", len(items), "members", len(in.MemberIDs))
	return list, nil
}

// Get returns the full projection of a list. Callers must Authorize
// first.
func (s *ListService) Get(ctx context.Context, listID int64) (*models.List, error) {
	return s.store.GetList(ctx, listID)
}

// UpdateListInput is a partial list update. The edge guarantees at
// least one field is present and present fields are non-empty.
type UpdateListInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Update applies a partial update and returns the full updated
// projection.
func (s *ListService) Update(ctx context.Context, listID int64, in UpdateListInput) (*models.List, error) {
	list, err := s.store.UpdateList(ctx, listID, storage.ListUpdate{
		Title:       in.Title,
		Description: in.Description,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("list updated", "list_id", listID)
	return list, nil
}

// Delete hard-deletes a list and returns the pre-delete snapshot.
func (s *ListService) Delete(ctx context.Context, listID int64) (*models.List, error) {
	list, err := s.store.DeleteList(ctx, listID)
	if err != nil {
		return nil, err
	}
	slog.Info("list deleted", "list_id", listID)
	return list, nil
}

// CreateItem adds an open item to a list.
func (s *ListService) CreateItem(ctx context.Context, listID int64, in ItemInput) (*models.ListItem, error) {
	if in.Amount <= 0 {
		return nil, Validationf("item amount must be positive")
	}
	item, err := s.store.CreateListItem(ctx, listID, storage.ItemFields{
		Title:  in.Title,
		Amount: in.Amount,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("item created", "list_id", listID, "item_id", item.ID)
	return item, nil
}

// UpdateItemInput is a partial item update. Title, amount and status
// are independently optional; the edge guarantees at least one is
// present.
type UpdateItemInput struct {
	Title  *string `json:"title"`
	Amount *int64  `json:"amount"`
	Status *bool   `json:"status"`
}

// UpdateItem applies a partial update to an item of the given list.
func (s *ListService) UpdateItem(ctx context.Context, listID, itemID int64, in UpdateItemInput) (*models.ListItem, error) {
	if in.Amount != nil && *in.Amount <= 0 {
		return nil, Validationf("item amount must be positive")
	}
	item, err := s.store.UpdateListItem(ctx, listID, itemID, storage.ItemUpdate{
		Title:  in.Title,
		Amount: in.Amount,
		Status: in.Status,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("item updated", "list_id", listID, "item_id", itemID)
	return item, nil
}

// DeleteItem removes an item and returns the pre-delete snapshot.
func (s *ListService) DeleteItem(ctx context.Context, listID, itemID int64) (*models.ListItem, error) {
	item, err := s.store.DeleteListItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}
	slog.Info("item deleted", "list_id", listID, "item_id", itemID)
	return item, nil
}

// CountItems returns the number of items on a list.
func (s *ListService) CountItems(ctx context.Context, listID int64) (int, error) {
	return s.store.CountListItems(ctx, listID)
}

// missingUserIDs returns the subset of ids with no matching user.
func missingUserIDs(ctx context.Context, store storage.Store, ids []int64) ([]int64, error) {
	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := users[id]; !ok && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
