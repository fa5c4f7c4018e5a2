package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

const collectionMutationEvents = "mutation_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionMutationEvents)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// Insert appends one mutation event to the audit collection.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.MutationEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"action":      string(event.Action),
		"resource":    string(event.Resource),
		"resource_id": event.ResourceID,
		"actor_id":    event.ActorID,
		"actor_role":  string(event.ActorRole),
		"at":          event.At.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// EnsureIndexes creates the indexes used by audit lookups.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "resource", Value: 1}, {Key: "resource_id", Value: 1}, {Key: "at", Value: 1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
