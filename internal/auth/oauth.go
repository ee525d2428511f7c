package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleCodeFlow implements the redirect variant of Google sign-in. The SPA
// collaborator mostly posts One Tap ID tokens straight to /v1/auth/google,
// but the classic consent-screen flow is kept for browsers that block One
// Tap. The exchanged code yields an id_token which goes through the exact
// same IdentityVerifier as a directly posted assertion.
type GoogleCodeFlow struct {
	conf *oauth2.Config
}

func NewGoogleCodeFlow(clientID, clientSecret, redirectURL string) *GoogleCodeFlow {
	return &GoogleCodeFlow{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the consent URL plus the CSRF state the caller must round-trip.
func (f *GoogleCodeFlow) AuthURL() (url, state string, err error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	state = base64.URLEncoding.EncodeToString(b)
	return f.conf.AuthCodeURL(state), state, nil
}

// ExchangeIDToken trades the authorization code for tokens and returns the
// raw, still unverified id_token. Any exchange failure or missing id_token
// maps to ErrInvalidAssertion so the caller surface stays uniform.
func (f *GoogleCodeFlow) ExchangeIDToken(ctx context.Context, code string) (string, error) {
	tok, err := f.conf.Exchange(ctx, code)
	if err != nil {
		return "", ErrInvalidAssertion
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", ErrInvalidAssertion
	}
	return raw, nil
}
