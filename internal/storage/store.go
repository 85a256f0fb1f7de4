// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/listling/internal/models"
)

// NotFoundError reports that a referenced row does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// NotFound builds a NotFoundError for the given resource and key.
func NotFound(resource string, key any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprint(key)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Scope restricts a list query to rows the accessor may see.
type Scope int

const (
	// ScopeNone applies no ownership restriction (admin listings).
	ScopeNone Scope = iota

	// ScopeAccessor matches lists the user owns or is a member of.
	ScopeAccessor

	// ScopeOwned matches lists the user owns.
	ScopeOwned

	// ScopeMember matches lists the user is a member of. The owner is
	// excluded by the owner-never-member invariant.
	ScopeMember
)

// Activity partitions lists by completion state.
type Activity int

const (
	// ActivityAny applies no activity restriction.
	ActivityAny Activity = iota

	// ActivityActive matches lists with at least one open item.
	ActivityActive

	// ActivityHistory matches lists with no open items, including
	// lists with no items at all.
	ActivityHistory
)

// Page describes a pagination window.
type Page struct {
	Limit int
	Page  int
}

// Offset returns the number of rows to skip for this window.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ListQuery is the predicate input for CountAndListLists. UserID is
// the accessing user for scoped queries and is ignored for ScopeNone.
// A nil Page means unpaginated.
type ListQuery struct {
	Scope    Scope
	UserID   int64
	Activity Activity
	Page     *Page
}

// ListFields carries the writable attributes of a list.
type ListFields struct {
	Title       string
	Description string
}

// ListUpdate is a partial list update; nil fields are left unchanged.
type ListUpdate struct {
	Title       *string
	Description *string
}

// ItemFields carries the writable attributes of a new list item.
type ItemFields struct {
	Title  string
	Amount int64
}

// ItemUpdate is a partial item update; nil fields are left unchanged.
type ItemUpdate struct {
	Title  *string
	Amount *int64
	Status *bool
}

// UserQuery filters the paginated user directory.
type UserQuery struct {
	// Search matches email, username, first or last name when
	// non-empty.
	Search string

	// ExcludeIDs removes the given users from the result.
	ExcludeIDs []int64

	Page Page
}

// Store defines the interface for persistence operations. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// CreateUser persists a new user and populates its ID and
	// timestamps.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address. Returns
	// (nil, nil) when no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id. Returns (nil, nil) when no
	// such user exists.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by id. Users that
	// do not exist are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*models.User, error)

	// CountAndListUsers returns the total match count and one page of
	// public user projections, both from one consistent snapshot.
	CountAndListUsers(ctx context.Context, q UserQuery) (int, []*models.User, error)

	// GetListAccess returns the owning user id and the member user ids
	// of a list. This is the minimal projection the authorization
	// check needs.
	GetListAccess(ctx context.Context, listID int64) (ownerID int64, memberIDs []int64, err error)

	// CreateList persists a list together with its initial items and
	// memberships as one atomic write. Member ids must already be
	// validated to exist.
	CreateList(ctx context.Context, ownerID int64, fields ListFields, items []ItemFields, memberIDs []int64) (*models.List, error)

	// GetList retrieves a list with its full nested projection
	// (owner, members, items).
	GetList(ctx context.Context, listID int64) (*models.List, error)

	// UpdateList applies a partial update and returns the full
	// updated projection.
	UpdateList(ctx context.Context, listID int64, upd ListUpdate) (*models.List, error)

	// DeleteList removes a list (items and memberships cascade) and
	// returns the pre-delete snapshot.
	DeleteList(ctx context.Context, listID int64) (*models.List, error)

	// CountAndListLists returns the total match count and the
	// matching lists ordered by creation time descending. Count and
	// rows are executed inside one transaction so they reflect the
	// same snapshot.
	CountAndListLists(ctx context.Context, q ListQuery) (int, []*models.List, error)

	// CreateListItem adds an open item to a list.
	CreateListItem(ctx context.Context, listID int64, fields ItemFields) (*models.ListItem, error)

	// UpdateListItem applies a partial update to an item of the given
	// list.
	UpdateListItem(ctx context.Context, listID, itemID int64, upd ItemUpdate) (*models.ListItem, error)

	// DeleteListItem removes an item and returns the pre-delete
	// snapshot.
	DeleteListItem(ctx context.Context, listID, itemID int64) (*models.ListItem, error)

	// CountListItems returns the number of items on a list.
	CountListItems(ctx context.Context, listID int64) (int, error)

	// AddMembers inserts (listID, userID) membership pairs. Duplicate
	// pairs are skipped by the storage layer's key constraint, not by
	// a check-then-insert.
	AddMembers(ctx context.Context, listID int64, userIDs []int64) error

	// RemoveMember deletes a membership by its composite key and
	// returns the removed member's public projection.
	RemoveMember(ctx context.Context, listID, userID int64) (*models.User, error)

	// ListMembers returns the public projections of a list's members.
	ListMembers(ctx context.Context, listID int64) ([]*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
