package client

import "time"

// Event mirrors the server's event representation.
type Event struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Date             string   `json:"date"`
	Time             string   `json:"time"`
	Location         string   `json:"location"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	Image            string   `json:"image"`
	RegisteredUsers  []string `json:"registered_users"`
	CreatedAt        string   `json:"created_at"`
	UpdatedAt        string   `json:"updated_at"`
}

// EventInput is the body of a create request. Date is YYYY-MM-DD.
type EventInput struct {
	Title            string `json:"title"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description"`
	Image            string `json:"image"`
}

// EventPatch is the body of an update request; nil fields are left unchanged.
type EventPatch struct {
	Title            *string `json:"title,omitempty"`
	Date             *string `json:"date,omitempty"`
	Time             *string `json:"time,omitempty"`
	Location         *string `json:"location,omitempty"`
	ShortDescription *string `json:"short_description,omitempty"`
	Description      *string `json:"description,omitempty"`
	Image            *string `json:"image,omitempty"`
}

// ListOptions are the optional list query parameters.
type ListOptions struct {
	Query string
	Page  int
	Limit int
}

// EventPage is one page of a list call.
type EventPage struct {
	Events []Event
	Total  int64
}

// User is the account returned on signup.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Me is the server's view of the current token.
type Me struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
