package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/api/metrics"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// Mutation describes one authorized, validated write.
type Mutation struct {
	Action     domain.Action
	Kind       domain.ResourceKind
	ResourceID string
	Actor      *domain.Identity
}

// Executor performs the single store write behind a mutation and publishes
// its audit record. It neither retries nor compensates.
type Executor struct {
	owners ports.OwnerLookup
	audit  ports.AuditPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func NewExecutor(owners ports.OwnerLookup, audit ports.AuditPublisher, log zerolog.Logger) *Executor {
	return &Executor{owners: owners, audit: audit, log: log, now: time.Now}
}

// Execute runs write once. Update and delete writes are conditional on
// ownership at the store; when they touch no row the failure is reclassified
// as NotFound or Forbidden by looking the resource up again.
func (e *Executor) Execute(ctx context.Context, m Mutation, write func(ctx context.Context) error) error {
	err := write(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && m.Action != domain.ActionCreate {
			err = e.reclassify(ctx, m)
		}
		if errors.Is(err, domain.ErrStorage) {
			e.log.Error().Err(err).
				Str("resource", string(m.Kind)).
				Str("action", string(m.Action)).
				Str("resource_id", m.ResourceID).
				Msg("mutation failed")
		}
		return err
	}

	metrics.MutationsTotal.WithLabelValues(string(m.Kind), string(m.Action)).Inc()
	e.log.Info().
		Str("resource", string(m.Kind)).
		Str("action", string(m.Action)).
		Str("resource_id", m.ResourceID).
		Str("actor_id", m.Actor.UserID).
		Msg("mutation committed")

	if e.audit != nil {
		e.audit.Publish(domain.MutationEvent{
			Action:     m.Action,
			Resource:   m.Kind,
			ResourceID: m.ResourceID,
			ActorID:    m.Actor.UserID,
			ActorRole:  m.Actor.Role,
			At:         e.now().UTC(),
		})
	}
	return nil
}

func (e *Executor) reclassify(ctx context.Context, m Mutation) error {
	owner, err := e.owners.OwnerOf(ctx, m.Kind, m.ResourceID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound
	case err != nil:
		return err
	case owner != m.Actor.UserID:
		return domain.ErrForbidden
	default:
		return domain.ErrNotFound
	}
}
