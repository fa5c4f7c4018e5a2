package domain

import "time"

// ResourceKind names a mutable collection.
type ResourceKind string

const (
	ResourceProduct ResourceKind = "product"
	ResourceStory   ResourceKind = "story"
	ResourceReview  ResourceKind = "review"
)

// Action is a mutation verb.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// MutationEvent records one successful write for the audit trail.
type MutationEvent struct {
	Action     Action       `json:"action" bson:"action"`
	Resource   ResourceKind `json:"resource" bson:"resource"`
	ResourceID string       `json:"resource_id" bson:"resource_id"`
	ActorID    string       `json:"actor_id" bson:"actor_id"`
	ActorRole  Role         `json:"actor_role" bson:"actor_role"`
	At         time.Time    `json:"at" bson:"at"`
}
