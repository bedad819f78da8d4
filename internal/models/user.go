package models

// Role determines what a user can do: admins create payment requests,
// users pay them.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a registered account in the user directory.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// FullName is the display name snapshotted into participants.
	FullName string `json:"fullName"`

	// Phone is the identity key used to match participants to users.
	Phone string `json:"phone"`

	// Email is the user's email address.
	Email string `json:"email"`

	// Role is either "admin" or "user".
	Role Role `json:"role"`

	// PasswordHash is the bcrypt hash of the password.
	// Never serialized to the wire.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt,omitempty"`
}
