package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sparklewash/carwash-api/internal/auth"
	"github.com/sparklewash/carwash-api/internal/model"
)

const userColumns = "id,email,password_hash,google_id,full_name,phone,role,is_verified,avatar_url,company_id,created_at,updated_at"

// UserRepo persists user records in the `users` table. Uniqueness of email,
// google_id and phone is enforced by the schema; MySQL duplicate-key errors
// (1062) are translated to auth.ErrDuplicate so the service can map races to
// the same conflict it reports from its pre-check.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

var _ auth.UserStore = (*UserRepo)(nil)

// Create inserts a user row and returns the stored record.
func (r *UserRepo) Create(ctx context.Context, nu auth.NewUser) (*model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, google_id, full_name, phone, role, is_verified, avatar_url) VALUES (?,?,?,?,?,?,?,?)",
		nu.Email, nu.PasswordHash, nu.GoogleID, nu.FullName, nu.Phone, nu.Role, nu.IsVerified, nu.AvatarURL)
	if err != nil {
		if isDuplicate(err) {
			return nil, auth.ErrDuplicate
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &model.User{
		ID:           uint64(id),
		Email:        nu.Email,
		PasswordHash: nu.PasswordHash,
		GoogleID:     nu.GoogleID,
		FullName:     nu.FullName,
		Phone:        nu.Phone,
		Role:         nu.Role,
		IsVerified:   nu.IsVerified,
		AvatarURL:    nu.AvatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

func (r *UserRepo) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE google_id=? LIMIT 1", googleID)
}

func (r *UserRepo) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE phone=? LIMIT 1", phone)
}

// LinkGoogle attaches a google subject id to an existing account and marks it
// verified. The avatar is only filled in when the caller supplies one
// (COALESCE keeps the current value otherwise) and password_hash is never
// touched here.
func (r *UserRepo) LinkGoogle(ctx context.Context, userID uint64, googleID string, avatarURL *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET google_id=?, is_verified=1, avatar_url=COALESCE(?, avatar_url) WHERE id=?",
		googleID, avatarURL, userID)
	if err != nil && isDuplicate(err) {
		return auth.ErrDuplicate
	}
	return err
}

func (r *UserRepo) SetPassword(ctx context.Context, userID uint64, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, userID)
	return err
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		u                      model.User
		passwordHash, googleID sql.NullString
		phone, avatarURL       sql.NullString
		companyID              sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &passwordHash, &googleID, &u.FullName, &phone,
		&u.Role, &u.IsVerified, &avatarURL, &companyID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	if googleID.Valid {
		u.GoogleID = &googleID.String
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	if avatarURL.Valid {
		u.AvatarURL = &avatarURL.String
	}
	if companyID.Valid {
		cid := uint64(companyID.Int64)
		u.CompanyID = &cid
	}
	return &u, nil
}

// isDuplicate detects a MySQL unique-constraint violation (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
