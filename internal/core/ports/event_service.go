package ports

import (
	"context"
	"time"

	"github.com/gdsc/eventhub/internal/core/domain"
)

// CreateEventInput holds the fields of a new event.
type CreateEventInput struct {
	Title            string
	Date             time.Time
	Time             string
	Location         string
	ShortDescription string
	Description      string
	Image            string
}

// ListEventsInput carries the list endpoint's query parameters.
type ListEventsInput struct {
	Title string
	Page  int
	Limit int
}

// ListEventsResult is a page of events plus the total match count.
type ListEventsResult struct {
	Items []*domain.Event
	Total int64
	Page  int
	Limit int
}

// EventService defines the event use cases. Authorization of the caller is
// decided by the route's middleware except where noted.
type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, in ListEventsInput) (*ListEventsResult, error)
	Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	Register(ctx context.Context, id string, p domain.Principal) error
	// RegisteredFor lists events subjectID registered for. Non-admin callers
	// may only ask about themselves.
	RegisteredFor(ctx context.Context, subjectID string, caller domain.Principal) ([]*domain.Event, error)
}
