package service

import (
	"context"
	"fmt"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

// UserService exposes the paginated user directory backing the member
// picker.
type UserService struct {
	store storage.Store
}

// NewUserService creates a new UserService with the given storage
// backend.
func NewUserService(store storage.Store) *UserService {
	return &UserService{store: store}
}

// UserFilter carries the directory filters parsed at the edge.
type UserFilter struct {
	Limit      int
	Page       int
	Search     string
	ExcludeIDs []int64
}

// UserPage is the paginated directory result.
type UserPage struct {
	Count int            `json:"count"`
	Data  []*models.User `json:"data"`
}

// Find returns one page of public user projections matching the
// filter. Excluded ids must reference existing users.
func (s *UserService) Find(ctx context.Context, f UserFilter) (*UserPage, error) {
	if len(f.ExcludeIDs) > 0 {
		if err := s.ValidateIDs(ctx, f.ExcludeIDs); err != nil {
			return nil, err
		}
	}

	count, users, err := s.store.CountAndListUsers(ctx, storage.UserQuery{
		Search:     f.Search,
		ExcludeIDs: f.ExcludeIDs,
		Page:       storage.Page{Limit: f.Limit, Page: f.Page},
	})
	if err != nil {
		return nil, err
	}
	return &UserPage{Count: count, Data: users}, nil
}

// ValidateIDs fails with a NotFoundError naming the missing ids when
// any id has no matching user.
func (s *UserService) ValidateIDs(ctx context.Context, ids []int64) error {
	missing, err := missingUserIDs(ctx, s.store, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return storage.NotFound("users", fmt.Sprint(missing))
	}
	return nil
}
