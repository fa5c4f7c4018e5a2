package ports

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

// AuditRepository persists mutation events to the audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.MutationEvent) error
}
