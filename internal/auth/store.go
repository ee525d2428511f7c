package auth

import (
	"context"
	"errors"
	"time"

	"github.com/sparklewash/carwash-api/internal/model"
)

// Store-level sentinels. Repositories translate their driver errors into
// these two values; the service never sees driver-specific failures.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// NewUser carries the attributes for a user row to be created. The store is
// the source of race-safety: concurrent creates with the same email, google
// id or phone are rejected by its unique constraints and surface here as
// ErrDuplicate.
type NewUser struct {
	Email        string
	PasswordHash *string
	GoogleID     *string
	FullName     string
	Phone        *string
	Role         string
	IsVerified   bool
	AvatarURL    *string
}

// UserStore is the credential-store contract for user records. The service
// owns all business rules; implementations do parameterized single-row work.
type UserStore interface {
	Create(ctx context.Context, nu NewUser) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	// LinkGoogle sets google_id on an existing account and marks it verified.
	// avatarURL is applied only when non-nil; the password hash is untouched.
	LinkGoogle(ctx context.Context, userID uint64, googleID string, avatarURL *string) error
	SetPassword(ctx context.Context, userID uint64, passwordHash string) error
}

// TokenStore is the credential-store contract for refresh-token records.
type TokenStore interface {
	Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error
	FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
	// DeleteExpiredOrRevoked removes terminal rows and returns how many went.
	DeleteExpiredOrRevoked(ctx context.Context) (int64, error)
}
