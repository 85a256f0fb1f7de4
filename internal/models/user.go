package models

// Roles assignable to a user account. Only admins bypass the
// ownership/membership checks on list access.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier assigned by the store.
	ID int64 `json:"id"`

	// Email is the user's email address (unique, used for login).
	Email string `json:"email"`

	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized in responses.
	PasswordHash string `json:"-"`

	// Role is either RoleUser or RoleAdmin. Immutable within a request.
	Role string `json:"role,omitempty"`

	// CreatedAt and UpdatedAt are Unix timestamps in seconds.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// Public returns a copy of the user safe to hand out to other users:
// the credential hash and role are stripped.
func (u *User) Public() *User {
	pub := *u
	pub.PasswordHash = ""
	pub.Role = ""
	return &pub
}

// Principal is the authenticated actor performing a request.
type Principal struct {
	ID   int64
	Role string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
