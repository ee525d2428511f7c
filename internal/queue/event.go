// Package queue defines message payloads exchanged over the message broker.
package queue

// Auth event kinds published to the auth.events queue.
const (
	EventUserRegistered  = "user.registered"
	EventUserLogin       = "user.login"
	EventGoogleLogin     = "user.google_login"
	EventUserLogout      = "user.logout"
	EventUserLogoutAll   = "user.logout_all"
	EventPasswordChanged = "user.password_changed"
)

// AuthEvent is published after auth operations complete. It is a
// fire-and-forget notification for the audit collaborator: enough to log and
// alert on without querying the primary database, and never enough to
// authenticate with (no tokens, no hashes).
type AuthEvent struct {
	EventID    string `json:"event_id"`
	Kind       string `json:"kind"`
	UserID     uint64 `json:"user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	OccurredAt string `json:"occurred_at"`
}
