package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sparklewash/carwash-api/internal/model"
	"github.com/sparklewash/carwash-api/internal/queue"
)

// AuditPublisher receives fire-and-forget notifications about completed auth
// operations. Implementations log and swallow their own failures; the service
// ignores the returned error so a broker outage can never fail a login.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

func (s *Service) notify(ctx context.Context, kind string, u *model.User) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Publish(ctx, queue.AuthEvent{
		EventID:    uuid.NewString(),
		Kind:       kind,
		UserID:     u.ID,
		Email:      u.Email,
		Role:       u.Role,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
