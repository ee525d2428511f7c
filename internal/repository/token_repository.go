package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sparklewash/carwash-api/internal/auth"
	"github.com/sparklewash/carwash-api/internal/model"
)

// TokenRepo persists refresh-token records. Only the SHA-256 hash of a token
// ever reaches this layer. Revocation is an UPDATE guarded by
// `revoked_at IS NULL`, which keeps it idempotent and monotonic; rows are
// deleted only by the cleanup sweep.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

var _ auth.TokenStore = (*TokenRepo)(nil)

// Create inserts a refresh-token row.
func (r *TokenRepo) Create(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, expiresAt)
	return err
}

// FindByHash returns the full record so the caller can distinguish revoked
// from expired; the repository itself makes no liveness judgment.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	return &t, nil
}

// RevokeByHash marks one token revoked. Affecting zero rows (unknown or
// already revoked) is not an error.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token owned by the user.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}

// DeleteExpiredOrRevoked garbage-collects terminal rows. Safe to run
// concurrently with live requests: it only removes records no refresh could
// ever accept again.
func (r *TokenRepo) DeleteExpiredOrRevoked(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE expires_at < UTC_TIMESTAMP() OR revoked_at IS NOT NULL")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
