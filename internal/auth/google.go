package auth

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// ErrInvalidAssertion is the single failure kind for federated sign-in. Every
// verification problem (bad signature, wrong audience, expired, malformed)
// collapses into it: there is no partial trust in an identity assertion.
var ErrInvalidAssertion = errors.New("invalid identity assertion")

// Profile is the identity extracted from a verified assertion. SubjectID is
// the provider's stable account id and survives email changes at the
// provider, which is why linking keys on it once established.
type Profile struct {
	SubjectID string
	Email     string
	Name      string
	AvatarURL string
}

// IdentityVerifier validates an externally issued identity assertion against
// a trusted issuer. Implementations must verify the signature chain before
// reading any claim.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawAssertion string) (Profile, error)
}

// GoogleVerifier checks Google ID tokens against the configured OAuth client
// id using Google's published signing keys (fetched and cached by the
// idtoken package).
type GoogleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify validates signature, issuer, audience and expiry, then maps the
// claims into a Profile. Fails closed: any error becomes ErrInvalidAssertion.
func (g *GoogleVerifier) Verify(ctx context.Context, rawAssertion string) (Profile, error) {
	payload, err := idtoken.Validate(ctx, rawAssertion, g.clientID)
	if err != nil {
		return Profile{}, ErrInvalidAssertion
	}
	p := Profile{SubjectID: payload.Subject}
	if v, ok := payload.Claims["email"].(string); ok {
		p.Email = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		p.Name = v
	}
	if v, ok := payload.Claims["picture"].(string); ok {
		p.AvatarURL = v
	}
	return p, nil
}
