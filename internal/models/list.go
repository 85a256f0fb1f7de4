package models

// List is a shared list owned by exactly one user. Other users gain
// access through memberships; the owner is never a member of their
// own list.
type List struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// OwnerID is the owning user's id, set at creation and never
	// reassigned.
	OwnerID int64 `json:"-"`

	// Owner, Members and Items are the nested projections loaded by
	// the store. Members carry public user projections only.
	Owner   *User       `json:"owner,omitempty"`
	Members []*User     `json:"members"`
	Items   []*ListItem `json:"items"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Active reports whether the list has at least one open item. A list
// with no items is not active: it belongs to the history partition.
func (l *List) Active() bool {
	for _, item := range l.Items {
		if !item.Status {
			return true
		}
	}
	return false
}

// ListItem is a single entry on a list.
type ListItem struct {
	ID     int64 `json:"id"`
	ListID int64 `json:"-"`

	Title string `json:"title"`

	// Amount is a positive quantity attached to the item.
	Amount int64 `json:"amount"`

	// Status is false while the item is open and true once completed.
	Status bool `json:"status"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}
