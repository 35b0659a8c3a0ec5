package ports

import (
	"context"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// ListEventsFilter narrows and pages an event listing.
type ListEventsFilter struct {
	Title string // optional: case-insensitive substring match on title
	Page  int    // 1-based
	Limit int    // 0 = no limit
}

// EventRepository persists events. Every method that addresses a single event
// returns domain.ErrEventNotFound when the ID does not match a stored event,
// including IDs that are not well-formed.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter ListEventsFilter) ([]*domain.Event, int64, error)
	ListByRegistrant(ctx context.Context, subjectID string) ([]*domain.Event, error)
	// Update applies patch and returns the stored result.
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	// AddRegistrant atomically appends subjectID to the registered users set.
	// Returns domain.ErrAlreadyRegistered when subjectID is already present.
	AddRegistrant(ctx context.Context, id, subjectID string) error
}
