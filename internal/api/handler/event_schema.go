package handler

// ErrorResponse is the standard error envelope returned on all 4xx/5xx responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// messageResponse confirms an operation that has no resource to return.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Request / Response types ---

type createEventRequest struct {
	Title            string `json:"title"             validate:"required"`
	Date             string `json:"date"              validate:"required,datetime=2006-01-02"`
	Time             string `json:"time"              validate:"required"`
	Location         string `json:"location"          validate:"required"`
	ShortDescription string `json:"short_description" validate:"required"`
	Description      string `json:"description"       validate:"required"`
	Image            string `json:"image"             validate:"required"`
}

// updateEventRequest only carries the fields present in the body.
type updateEventRequest struct {
	Title            *string `json:"title"`
	Date             *string `json:"date"              validate:"omitempty,datetime=2006-01-02"`
	Time             *string `json:"time"`
	Location         *string `json:"location"`
	ShortDescription *string `json:"short_description"`
	Description      *string `json:"description"`
	Image            *string `json:"image"`
}

type eventResponse struct {
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

type registerUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin"`
}

type registerUserResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}
