package domain

import "time"

// DateLayout is the wire format of Event.Date.
const DateLayout = "2006-01-02"

// Event is a scheduled happening users can register for.
type Event struct {
	ID               string
	Title            string
	Date             time.Time
	Time             string
	Location         string
	ShortDescription string
	Description      string
	Image            string
	// RegisteredUsers holds subject IDs; the store keeps it duplicate-free.
	RegisteredUsers []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRegistered reports whether subjectID already signed up for the event.
func (e *Event) IsRegistered(subjectID string) bool {
	for _, id := range e.RegisteredUsers {
		if id == subjectID {
			return true
		}
	}
	return false
}

// EventPatch carries a partial replacement of an event's fields. Nil fields
// are left untouched.
type EventPatch struct {
	Title            *string
	Date             *time.Time
	Time             *string
	Location         *string
	ShortDescription *string
	Description      *string
	Image            *string
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Date == nil && p.Time == nil && p.Location == nil &&
		p.ShortDescription == nil && p.Description == nil && p.Image == nil
}
