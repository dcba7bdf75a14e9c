package ports

import (
	"context"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// LoginAuditor receives login outcomes. Record must not block the login.
type LoginAuditor interface {
	Record(e domain.LoginEvent)
}

// AuditSink persists login events.
type AuditSink interface {
	Save(ctx context.Context, e domain.LoginEvent) error
}
