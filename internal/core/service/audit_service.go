package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/api/metrics"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record writes one mutation event to the audit trail.
func (s *auditService) Record(ctx context.Context, event domain.MutationEvent) error {
	start := time.Now()
	err := s.repo.Insert(ctx, &event)
	metrics.AuditDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("record audit event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues("recorded").Inc()
	s.log.Debug().
		Str("resource", string(event.Resource)).
		Str("action", string(event.Action)).
		Str("resource_id", event.ResourceID).
		Msg("audit event recorded")
	return nil
}
