package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

type stubAuditRepo struct {
	insertErr error
	inserted  []*domain.MutationEvent
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.MutationEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func sampleEvent() domain.MutationEvent {
	return domain.MutationEvent{
		Action:     domain.ActionUpdate,
		Resource:   domain.ResourceProduct,
		ResourceID: "p1",
		ActorID:    "u1",
		ActorRole:  domain.RoleArtisan,
		At:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAuditService_Record(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, discardLogger)

	if err := svc.Record(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("Record returned error: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].ResourceID != "p1" {
		t.Fatalf("unexpected inserts: %+v", repo.inserted)
	}
}

func TestAuditService_Record_InsertFailure(t *testing.T) {
	cause := errors.New("mongo unavailable")
	svc := NewAuditService(&stubAuditRepo{insertErr: cause}, discardLogger)

	if err := svc.Record(context.Background(), sampleEvent()); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}
