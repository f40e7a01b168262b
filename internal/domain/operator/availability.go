// Package operator is this service's read-only view of support operators and
// the policy that picks one for a waiting visitor.
package operator

import (
	"context"
	"errors"
)

var ErrOperatorNotFound = errors.New("operator not found")

// Availability is a point-in-time snapshot served by the operator directory.
type Availability struct {
	ID                  string
	ActiveConversations int
	Online              bool
	Blocked             bool
	Tags                []string
	Email               string
}

// IsAvailable reports whether the operator can take new work.
func (a *Availability) IsAvailable() bool {
	return a.Online && !a.Blocked
}

// HasAnyTag reports whether the operator carries at least one of tags.
// An empty tags list matches everyone.
func (a *Availability) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range a.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Directory is the operator registry owned by the account service.
type Directory interface {
	Get(ctx context.Context, operatorID string) (*Availability, error)
	List(ctx context.Context) ([]*Availability, error)
	SetOnline(ctx context.Context, operatorID string, online bool) error
}
