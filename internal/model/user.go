package model

import "time"

// Role values stored in users.role. MANAGER accounts are scoped to a company
// (tenant); ADMIN accounts oversee every tenant.
const (
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

// User mirrors the `users` table. A user authenticates with a password, with
// a linked Google account, or with both, so PasswordHash and GoogleID are
// both nullable; a row never has neither. Email is lowercase-normalized and
// unique. GoogleID and Phone are unique when present (partial uniqueness,
// many NULLs allowed).
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash *string   // users.password_hash (NULL for google-only accounts)
	GoogleID     *string   // users.google_id (federated subject id)
	FullName     string    // users.full_name
	Phone        *string   // users.phone
	Role         string    // users.role (CUSTOMER | MANAGER | ADMIN)
	IsVerified   bool      // users.is_verified (google accounts start verified)
	AvatarURL    *string   // users.avatar_url
	CompanyID    *uint64   // users.company_id (tenant; NULL for customers/admins)
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool { return u.PasswordHash != nil && *u.PasswordHash != "" }

// RefreshToken models a row in `refresh_tokens`. Only the SHA-256 hash of the
// opaque token is stored; lookup is by hash equality. RevokedAt is monotonic:
// it moves from NULL to a timestamp exactly once and never back. Expiry is not
// a stored state, it is computed against ExpiresAt at check time. Rows are
// garbage-collected by the cleanup worker once expired or revoked.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id (many tokens per user)
	TokenHash string     // refresh_tokens.token_hash (SHA-256 hex)
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (NULL while active)
	CreatedAt time.Time  // refresh_tokens.created_at
}

// Revoked reports whether the token has been explicitly revoked.
func (t *RefreshToken) Revoked() bool { return t.RevokedAt != nil }

// Expired reports whether the token's lifetime has elapsed at the given time.
func (t *RefreshToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
