package service

import (
	"github.com/google/uuid"

	"github.com/handcrafted-haven/marketplace/internal/api/metrics"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/validation"
)

// Pipeline bundles the write path shared by every mutating service:
// authorize, then validate, then execute.
type Pipeline struct {
	Authorizer *Authorizer
	Validator  *validation.Validator
	Executor   *Executor
}

func (p *Pipeline) invalid(kind domain.ResourceKind, err error) error {
	metrics.ValidationFailuresTotal.WithLabelValues(string(kind)).Inc()
	return err
}

// knownID reports whether id can name a stored row at all.
func knownID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func newID() string { return uuid.NewString() }
