// Package auth implements the authentication core: password and Google
// sign-in, access/refresh token issuance, refresh-token revocation and
// account linking. It consumes the UserStore/TokenStore contracts and knows
// nothing about HTTP.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sparklewash/carwash-api/internal/model"
	"github.com/sparklewash/carwash-api/internal/queue"
	"github.com/sparklewash/carwash-api/internal/utils"
	"github.com/sparklewash/carwash-api/pkg/apperrors"
)

const minPasswordLen = 8

// UserView is the public projection of a user record. It never carries the
// password hash or the raw Google subject id.
type UserView struct {
	ID         uint64  `json:"id"`
	Email      string  `json:"email"`
	FullName   string  `json:"full_name"`
	Phone      *string `json:"phone,omitempty"`
	Role       string  `json:"role"`
	IsVerified bool    `json:"is_verified"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	CompanyID  *uint64 `json:"company_id,omitempty"`
}

// Session is the result of a successful login or Google sign-in: the user
// view plus a fresh token pair. RefreshToken is the only time the plaintext
// refresh token exists outside the client.
type Session struct {
	User             UserView  `json:"user"`
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// RefreshResult is the output of a refresh: a new access token bound to the
// owner's current role and tenant. The refresh token itself is not rotated
// and stays valid until its own expiry or explicit revocation.
type RefreshResult struct {
	User            UserView  `json:"user"`
	AccessToken     string    `json:"access_token"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

// RegisterInput is the payload for password-based account creation.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    *string
	Role     string
}

// Service orchestrates the credential store, the password hasher, the token
// issuer and the identity verifier. It holds no mutable state of its own;
// every method is safe for concurrent use.
type Service struct {
	users  UserStore
	tokens TokenStore
	issuer *TokenIssuer
	google IdentityVerifier // nil when Google sign-in is not configured
	audit  AuditPublisher   // nil disables event publishing
}

func NewService(users UserStore, tokens TokenStore, issuer *TokenIssuer, google IdentityVerifier, audit AuditPublisher) *Service {
	return &Service{users: users, tokens: tokens, issuer: issuer, google: google, audit: audit}
}

// Register creates a password-based account. The email is the primary
// uniqueness key; a duplicate (whatever its letter case) fails with
// ALREADY_EXISTS whether it is caught by the pre-check or by the store's
// unique constraint under a concurrent create.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*UserView, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.InvalidArg("a valid email is required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperrors.InvalidArg("password must be at least 8 characters")
	}

	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role != model.RoleManager {
		role = model.RoleCustomer // ADMIN is never self-assigned
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrAccountExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, apperrors.ErrStore(err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.ErrStore(err)
	}

	u, err := s.users.Create(ctx, NewUser{
		Email:        email,
		PasswordHash: &hash,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        in.Phone,
		Role:         role,
		IsVerified:   false,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, apperrors.ErrAccountExists
		}
		return nil, apperrors.ErrStore(err)
	}

	s.notify(ctx, queue.EventUserRegistered, u)
	v := viewOf(u)
	return &v, nil
}

// Login authenticates with an email or phone identifier plus password and
// issues a token pair. A missing account, a google-only account and a wrong
// password all return the same UNAUTHENTICATED failure so responses cannot be
// used to enumerate registered emails.
func (s *Service) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var (
		u   *model.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.users.FindByEmail(ctx, NormalizeEmail(identifier))
	} else {
		u, err = s.users.FindByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrStore(err)
	}
	if !u.HasPassword() || !utils.VerifyPassword(*u.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, queue.EventUserLogin, u)
	return sess, nil
}

// GoogleLogin signs a user in with a Google ID-token assertion, applying the
// account resolution order: by google subject id first, then by email (which
// links the subject id onto the existing account), then create. Email is the
// durable anchor across sign-in methods; once linked, the subject id is
// authoritative, so a later email change at Google cannot hijack the link.
func (s *Service) GoogleLogin(ctx context.Context, rawAssertion string) (*Session, error) {
	if s.google == nil {
		return nil, apperrors.ErrGoogleNotEnabled
	}

	profile, err := s.google.Verify(ctx, rawAssertion)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if profile.Email == "" {
		return nil, apperrors.ErrEmailMissing
	}
	profile.Email = NormalizeEmail(profile.Email)

	u, err := s.resolveGoogleUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	sess, err := s.issueSession(ctx, u)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, queue.EventGoogleLogin, u)
	return sess, nil
}

func (s *Service) resolveGoogleUser(ctx context.Context, p Profile) (*model.User, error) {
	u, err := s.users.FindByGoogleID(ctx, p.SubjectID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, apperrors.ErrStore(err)
	}

	// No account for this subject yet: link onto the email match if one
	// exists.
	u, err = s.users.FindByEmail(ctx, p.Email)
	if err == nil {
		return s.linkExisting(ctx, u, p)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, apperrors.ErrStore(err)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		// Fall back to the email local part. Verified assertions normally
		// carry a routable address, but the contract does not guarantee an
		// "@", so keep the whole string when there is none.
		name = p.Email
		if at := strings.Index(name, "@"); at > 0 {
			name = name[:at]
		}
	}
	nu := NewUser{
		Email:      p.Email,
		GoogleID:   &p.SubjectID,
		FullName:   name,
		Role:       model.RoleCustomer,
		IsVerified: true,
	}
	if p.AvatarURL != "" {
		nu.AvatarURL = &p.AvatarURL
	}

	u, err = s.users.Create(ctx, nu)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			// Lost a race with a concurrent create. The winner was either a
			// first sign-in of the same subject or a password registration of
			// the same email; the row exists now, so resolve it the way a
			// sequential arrival would.
			if u, e2 := s.users.FindByGoogleID(ctx, p.SubjectID); e2 == nil {
				return u, nil
			}
			if u, e2 := s.users.FindByEmail(ctx, p.Email); e2 == nil {
				return s.linkExisting(ctx, u, p)
			}
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrStore(err)
	}
	return u, nil
}

// linkExisting attaches the verified subject id to an account found by email.
// Linking never touches the password hash, so a password account gaining a
// Google identity keeps both sign-in paths; the avatar is filled in only when
// the account has none.
func (s *Service) linkExisting(ctx context.Context, u *model.User, p Profile) (*model.User, error) {
	var avatar *string
	if p.AvatarURL != "" && u.AvatarURL == nil {
		avatar = &p.AvatarURL
	}
	if err := s.users.LinkGoogle(ctx, u.ID, p.SubjectID, avatar); err != nil {
		return nil, apperrors.ErrStore(err)
	}
	u.GoogleID = &p.SubjectID
	u.IsVerified = true
	if avatar != nil {
		u.AvatarURL = avatar
	}
	return u, nil
}

// Refresh exchanges a live refresh token for a new access token. The token
// record's state decides the failure kind: unknown hash, revoked and expired
// are reported distinctly since the client reacts differently to each.
func (s *Service) Refresh(ctx context.Context, rawRefresh string) (*RefreshResult, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil, apperrors.ErrRefreshRequired
	}

	rec, err := s.tokens.FindByHash(ctx, HashRefreshRaw(rawRefresh))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrTokenUnknown
		}
		return nil, apperrors.ErrStore(err)
	}
	if rec.Revoked() {
		return nil, apperrors.ErrTokenRevoked
	}
	if rec.Expired(time.Now().UTC()) {
		return nil, apperrors.ErrTokenExpired
	}

	u, err := s.users.FindByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrTokenUnknown
		}
		return nil, apperrors.ErrStore(err)
	}

	access, exp, err := s.issuer.IssueAccess(u)
	if err != nil {
		return nil, apperrors.ErrStore(err)
	}
	return &RefreshResult{User: viewOf(u), AccessToken: access, AccessExpiresAt: exp}, nil
}

// Logout revokes the single session behind the given refresh token. It is
// idempotent: an empty, unknown or already-revoked token is not an error.
func (s *Service) Logout(ctx context.Context, rawRefresh string) error {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return nil
	}
	hash := HashRefreshRaw(rawRefresh)

	rec, err := s.tokens.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return apperrors.ErrStore(err)
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil {
		return apperrors.ErrStore(err)
	}
	if u, err := s.users.FindByID(ctx, rec.UserID); err == nil {
		s.notify(ctx, queue.EventUserLogout, u)
	}
	return nil
}

// LogoutAll revokes every refresh token the user owns, regardless of each
// token's own expiry state ("sign out everywhere").
func (s *Service) LogoutAll(ctx context.Context, userID uint64) error {
	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		return apperrors.ErrStore(err)
	}
	if u, err := s.users.FindByID(ctx, userID); err == nil {
		s.notify(ctx, queue.EventUserLogoutAll, u)
	}
	return nil
}

// ChangePassword verifies the current password (when one exists) and stores a
// new hash. A google-only account has no hash to check, which is how such a
// user sets a password for the first time. Existing refresh tokens stay
// valid: sign-out-everywhere after a password change is the client's call via
// LogoutAll, not an implicit side effect.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, currentPassword, newPassword string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrStore(err)
	}

	if u.HasPassword() && !utils.VerifyPassword(*u.PasswordHash, currentPassword) {
		return apperrors.ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLen {
		return apperrors.InvalidArg("password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return apperrors.ErrStore(err)
	}
	if err := s.users.SetPassword(ctx, userID, hash); err != nil {
		return apperrors.ErrStore(err)
	}
	s.notify(ctx, queue.EventPasswordChanged, u)
	return nil
}

// GetUser loads the public view of a user, for /v1/me style callers.
func (s *Service) GetUser(ctx context.Context, userID uint64) (*UserView, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.ErrStore(err)
	}
	v := viewOf(u)
	return &v, nil
}

// Issuer exposes the token issuer for middleware that verifies access tokens.
func (s *Service) Issuer() *TokenIssuer { return s.issuer }

func (s *Service) issueSession(ctx context.Context, u *model.User) (*Session, error) {
	access, accessExp, err := s.issuer.IssueAccess(u)
	if err != nil {
		return nil, apperrors.ErrStore(err)
	}
	refresh, err := s.issuer.IssueRefresh()
	if err != nil {
		return nil, apperrors.ErrStore(err)
	}
	if err := s.tokens.Create(ctx, u.ID, refresh.Hash, refresh.ExpiresAt); err != nil {
		return nil, apperrors.ErrStore(err)
	}
	return &Session{
		User:             viewOf(u),
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh.Raw,
		RefreshExpiresAt: refresh.ExpiresAt,
	}, nil
}

// NormalizeEmail lowercases and trims an email so lookups and uniqueness
// always work on the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func viewOf(u *model.User) UserView {
	return UserView{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		CompanyID:  u.CompanyID,
	}
}
