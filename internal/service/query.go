package service

import (
	"context"

	"github.com/mmynk/listling/internal/models"
	"github.com/mmynk/listling/internal/storage"
)

// ListFilter carries the optional listing filters parsed at the edge.
// Limit and Page are already clamped to their valid ranges.
type ListFilter struct {
	Limit   int
	Page    int
	IsOwned *bool
	IsDone  *bool
}

// ListPage is the paginated listing result. Count is the total number
// of matching rows regardless of the requested page.
type ListPage struct {
	Count int            `json:"count"`
	Data  []*models.List `json:"data"`
}

// scopeFor is the rule table mapping (role, explicit is_owned filter)
// to a query scope. An explicit is_owned overrides the default
// scoping for admins and users alike: the filter narrows, it never
// widens access.
func scopeFor(p models.Principal, isOwned *bool) storage.Scope {
	switch {
	case isOwned != nil && *isOwned:
		return storage.ScopeOwned
	case isOwned != nil:
		return storage.ScopeMember
	case p.IsAdmin():
		return storage.ScopeNone
	default:
		return storage.ScopeAccessor
	}
}

// activityFor maps the optional is_done filter onto the activity
// partition: done lists are history, not-done lists are active.
func activityFor(isDone *bool) storage.Activity {
	switch {
	case isDone == nil:
		return storage.ActivityAny
	case *isDone:
		return storage.ActivityHistory
	default:
		return storage.ActivityActive
	}
}

// List returns one page of lists visible to the principal, newest
// first, with the total match count from the same snapshot.
func (s *ListService) List(ctx context.Context, p models.Principal, f ListFilter) (*ListPage, error) {
	count, lists, err := s.store.CountAndListLists(ctx, storage.ListQuery{
		Scope:    scopeFor(p, f.IsOwned),
		UserID:   p.ID,
		Activity: activityFor(f.IsDone),
		Page:     &storage.Page{Limit: f.Limit, Page: f.Page},
	})
	if err != nil {
		return nil, err
	}
	return &ListPage{Count: count, Data: lists}, nil
}

// ListActive returns all lists visible to the principal that still
// have at least one open item, newest first. Not paginated.
func (s *ListService) ListActive(ctx context.Context, p models.Principal) ([]*models.List, error) {
	_, lists, err := s.store.CountAndListLists(ctx, storage.ListQuery{
		Scope:    scopeFor(p, nil),
		UserID:   p.ID,
		Activity: storage.ActivityActive,
	})
	return lists, err
}

// ListHistory returns one page of lists visible to the principal with
// no open items (lists without items count as history), newest first.
func (s *ListService) ListHistory(ctx context.Context, p models.Principal, limit, page int) (*ListPage, error) {
	count, lists, err := s.store.CountAndListLists(ctx, storage.ListQuery{
		Scope:    scopeFor(p, nil),
		UserID:   p.ID,
		Activity: storage.ActivityHistory,
		Page:     &storage.Page{Limit: limit, Page: page},
	})
	if err != nil {
		return nil, err
	}
	return &ListPage{Count: count, Data: lists}, nil
}
