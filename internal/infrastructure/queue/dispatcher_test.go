package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

type recordingAudit struct {
	mu      sync.Mutex
	byID    map[string][]domain.Action
	failFor string
	count   int
}

func newRecordingAudit() *recordingAudit {
	return &recordingAudit{byID: make(map[string][]domain.Action)}
}

func (a *recordingAudit) Record(_ context.Context, e domain.MutationEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.count++
	if e.ResourceID == a.failFor {
		return errors.New("mongo unavailable")
	}
	a.byID[e.ResourceID] = append(a.byID[e.ResourceID], e.Action)
	return nil
}

func (a *recordingAudit) total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

func TestDispatcher_PreservesPerResourceOrder(t *testing.T) {
	audit := newRecordingAudit()
	d := NewDispatcher(4, audit, zerolog.Nop())
	d.Start(context.Background())

	sequence := []domain.Action{domain.ActionCreate, domain.ActionUpdate, domain.ActionUpdate, domain.ActionDelete}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("resource-%d", i)
		for _, a := range sequence {
			d.Publish(domain.MutationEvent{Action: a, Resource: domain.ResourceProduct, ResourceID: id})
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for audit.total() < 40 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop(t, d)

	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("resource-%d", i)
		got := audit.byID[id]
		if len(got) != len(sequence) {
			t.Fatalf("%s: expected %d events, got %d", id, len(sequence), len(got))
		}
		for j := range sequence {
			if got[j] != sequence[j] {
				t.Fatalf("%s: out of order at %d: %v", id, j, got)
			}
		}
	}
}

func TestDispatcher_FailureDoesNotStopWorker(t *testing.T) {
	audit := newRecordingAudit()
	audit.failFor = "broken"
	d := NewDispatcher(1, audit, zerolog.Nop())
	d.Start(context.Background())

	d.Publish(domain.MutationEvent{Action: domain.ActionCreate, ResourceID: "broken"})
	d.Publish(domain.MutationEvent{Action: domain.ActionCreate, ResourceID: "fine"})

	deadline := time.Now().Add(2 * time.Second)
	for audit.total() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	stop(t, d)

	if len(audit.byID["fine"]) != 1 {
		t.Fatalf("expected the second event to be recorded, got %+v", audit.byID)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingAudit(), zerolog.Nop())
	for _, id := range []string{"a", "b", "4f1c2a9e-0000-4000-8000-000000000000"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard index for %q changed", id)
		}
	}
}

func stop(t *testing.T, d *Dispatcher) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop returned error: %v", err)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	audit := newRecordingAudit()
	d := NewDispatcher(2, audit, zerolog.Nop())
	for i := 0; i < 5; i++ {
		d.Publish(domain.MutationEvent{Action: domain.ActionCreate, ResourceID: fmt.Sprintf("r%d", i)})
	}

	d.Start(context.Background())
	stop(t, d)

	if audit.total() != 5 {
		t.Fatalf("expected buffered events to be drained, recorded %d", audit.total())
	}
}

// blockingAudit holds every Record until its context ends.
type blockingAudit struct {
	mu    sync.Mutex
	calls int
}

func (a *blockingAudit) Record(ctx context.Context, _ domain.MutationEvent) error {
	a.mu.Lock()
	a.calls++
	a.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func TestDispatcher_StopHonoursDeadline(t *testing.T) {
	audit := &blockingAudit{}
	d := NewDispatcher(1, audit, zerolog.Nop())
	for i := 0; i < 20; i++ {
		d.Publish(domain.MutationEvent{Action: domain.ActionCreate, ResourceID: "same"})
	}
	d.Start(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	started := time.Now()
	err := d.Stop(ctx)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("Stop took %s, drain was not bounded", elapsed)
	}

	// Workers exit promptly once the deadline has passed.
	done := make(chan struct{})
	go func() { d.wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker still running after the drain deadline")
	}

	audit.mu.Lock()
	defer audit.mu.Unlock()
	if audit.calls >= 20 {
		t.Fatalf("expected queued events to be dropped, got %d record calls", audit.calls)
	}
}
