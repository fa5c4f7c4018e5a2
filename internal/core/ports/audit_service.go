package ports

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

// AuditPublisher accepts mutation events for asynchronous recording.
type AuditPublisher interface {
	Publish(event domain.MutationEvent)
}

// AuditService records a single mutation event.
type AuditService interface {
	Record(ctx context.Context, event domain.MutationEvent) error
}
