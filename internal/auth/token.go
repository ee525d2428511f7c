package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sparklewash/carwash-api/internal/model"
)

// Access-token verification failures. Expiry is reported separately from a
// bad signature so middleware can tell clients to refresh instead of
// re-authenticating.
var (
	ErrAccessTokenExpired = errors.New("access token expired")
	ErrAccessTokenInvalid = errors.New("access token invalid")
)

// AccessClaims is the payload carried by every access token. Tokens are
// stateless: verifying the signature and expiry needs no store lookup.
type AccessClaims struct {
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CompanyID *uint64 `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// RefreshCredential is a freshly minted refresh token. Raw goes back to the
// client exactly once; only Hash is ever persisted.
type RefreshCredential struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies access tokens and mints opaque refresh
// tokens. The signing secret is process-wide configuration injected at
// construction; nothing else in the service touches it.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTLMin, refreshTTLDays int) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  time.Duration(accessTTLMin) * time.Minute,
		refreshTTL: time.Duration(refreshTTLDays) * 24 * time.Hour,
	}
}

// IssueAccess signs a short-lived HS256 JWT for the user's current identity.
func (i *TokenIssuer) IssueAccess(u *model.User) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(i.accessTTL)
	claims := AccessClaims{
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", u.ID),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyAccess parses and validates an access token. Only HS256 is accepted;
// tokens signed with any other method fail as invalid.
func (i *TokenIssuer) VerifyAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAccessTokenInvalid
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrAccessTokenExpired
		}
		return nil, ErrAccessTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrAccessTokenInvalid
	}
	return claims, nil
}

// IssueRefresh mints an opaque refresh token from 48 bytes of CSPRNG output
// (96 hex chars) together with the hash under which it will be stored.
func (i *TokenIssuer) IssueRefresh() (RefreshCredential, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return RefreshCredential{}, err
	}
	raw := hex.EncodeToString(buf)
	return RefreshCredential{
		Raw:       raw,
		Hash:      HashRefreshRaw(raw),
		ExpiresAt: time.Now().UTC().Add(i.refreshTTL),
	}, nil
}

// HashRefreshRaw returns the SHA-256 hex digest of a raw refresh token. The
// digest is deterministic so the store can look tokens up by hash equality
// without ever holding the plaintext.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
