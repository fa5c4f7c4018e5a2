package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/handcrafted-haven/marketplace/internal/api/metrics"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// DenyReason explains a refused mutation.
type DenyReason string

const (
	DenyUnauthenticated DenyReason = "unauthenticated"
	DenyForbidden       DenyReason = "forbidden"
	DenyNotFound        DenyReason = "not_found"
)

// Decision is the authorizer's verdict. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err maps a denial onto the domain error taxonomy; it is nil for Allow.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case DenyUnauthenticated:
		return domain.ErrUnauthenticated
	case DenyNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrForbidden
	}
}

var allow = Decision{Allowed: true}

func deny(r DenyReason) Decision { return Decision{Reason: r} }

// Authorizer decides whether an identity may perform a mutation. It never writes.
type Authorizer struct {
	owners ports.OwnerLookup
}

func NewAuthorizer(owners ports.OwnerLookup) *Authorizer {
	return &Authorizer{owners: owners}
}

// Authorize evaluates the rules in order: anonymous callers are refused,
// creates are role-gated, and updates and deletes require ownership looked up
// at call time. The error is non-nil only when the owner lookup itself fails.
func (a *Authorizer) Authorize(ctx context.Context, id *domain.Identity, action domain.Action, kind domain.ResourceKind, resourceID string) (Decision, error) {
	if id.Anonymous() {
		return deny(DenyUnauthenticated), nil
	}

	switch action {
	case domain.ActionCreate:
		switch kind {
		case domain.ResourceProduct, domain.ResourceStory:
			if !id.Role.IsArtisan() {
				return deny(DenyForbidden), nil
			}
			return allow, nil
		case domain.ResourceReview:
			return allow, nil
		}

	case domain.ActionUpdate, domain.ActionDelete:
		if kind == domain.ResourceReview {
			// reviews are immutable
			return deny(DenyForbidden), nil
		}
		owner, err := a.owners.OwnerOf(ctx, kind, resourceID)
		if errors.Is(err, domain.ErrNotFound) {
			return deny(DenyNotFound), nil
		}
		if err != nil {
			return Decision{}, fmt.Errorf("authorize %s %s: %w", action, kind, err)
		}
		if owner != id.UserID {
			return deny(DenyForbidden), nil
		}
		return allow, nil
	}

	return deny(DenyForbidden), nil
}

// Require is Authorize folded into a single error, counting denials.
func (a *Authorizer) Require(ctx context.Context, id *domain.Identity, action domain.Action, kind domain.ResourceKind, resourceID string) error {
	d, err := a.Authorize(ctx, id, action, kind, resourceID)
	if err != nil {
		return err
	}
	if !d.Allowed {
		metrics.AuthorizationDenialsTotal.WithLabelValues(string(kind), string(d.Reason)).Inc()
	}
	return d.Err()
}
