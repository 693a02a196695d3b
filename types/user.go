package types

import "time"

// User represents an account in the system.
// It contains identity, credentials, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID int64 `json:"id" db:"id"`

	// Username is the unique login handle.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. May be empty.
	Email string `json:"email" db:"email"`

	// FullName is the user's display name. May be empty.
	FullName string `json:"full_name" db:"full_name"`

	// PasswordHash stores the salted scrypt record ("salt:hex").
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// APIToken is the single live bearer token, if any.
	// Issuing a new token replaces it; logout clears it.
	APIToken *string `json:"-" db:"api_token"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"-" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"-" db:"updated_at"`
}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Identity returns the public view of the user.
func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}
