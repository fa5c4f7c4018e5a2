package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

func TestExecutor_PublishesAuditOnSuccess(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", domain.RoleArtisan)
	pub := &recordingPublisher{}
	exec := NewExecutor(store, pub, discardLogger)

	m := Mutation{Action: domain.ActionCreate, Kind: domain.ResourceStory, ResourceID: uuid.NewString(), Actor: identityOf(alice)}
	if err := exec.Execute(context.Background(), m, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.ResourceID != m.ResourceID || ev.ActorID != alice.ID || ev.ActorRole != domain.RoleArtisan || ev.At.IsZero() {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestExecutor_NoAuditOnFailure(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", domain.RoleArtisan)
	pub := &recordingPublisher{}
	exec := NewExecutor(store, pub, discardLogger)

	storageErr := &domain.StorageError{Op: "insert product", Err: errors.New("unique violation")}
	m := Mutation{Action: domain.ActionCreate, Kind: domain.ResourceProduct, ResourceID: uuid.NewString(), Actor: identityOf(alice)}
	err := exec.Execute(context.Background(), m, func(context.Context) error { return storageErr })
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatalf("expected no audit events, got %d", len(pub.events))
	}
}

func TestExecutor_ReclassifiesZeroRowWrites(t *testing.T) {
	store := newMemStore()
	alice := store.addUser("Alice", domain.RoleArtisan)
	bob := store.addUser("Bob", domain.RoleArtisan)
	story := store.addStory(alice, "Roots")
	exec := NewExecutor(store, &recordingPublisher{}, discardLogger)

	zeroRows := func(context.Context) error { return domain.ErrNotFound }

	// ownership moved between the check and the write
	m := Mutation{Action: domain.ActionDelete, Kind: domain.ResourceStory, ResourceID: story.ID, Actor: identityOf(bob)}
	if err := exec.Execute(context.Background(), m, zeroRows); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// resource vanished between the check and the write
	m = Mutation{Action: domain.ActionUpdate, Kind: domain.ResourceStory, ResourceID: uuid.NewString(), Actor: identityOf(alice)}
	if err := exec.Execute(context.Background(), m, zeroRows); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExecutor_CreateNotFoundPassesThrough(t *testing.T) {
	store := newMemStore()
	carol := store.addUser("Carol", domain.RoleCustomer)
	exec := NewExecutor(store, nil, discardLogger)

	m := Mutation{Action: domain.ActionCreate, Kind: domain.ResourceReview, ResourceID: uuid.NewString(), Actor: identityOf(carol)}
	err := exec.Execute(context.Background(), m, func(context.Context) error { return domain.ErrNotFound })
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
