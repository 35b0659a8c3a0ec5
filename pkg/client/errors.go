package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an API failure the way a UI would present it.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eventhub: %d %s", e.StatusCode, e.Message)
}

// Kind maps the status code (and, for 400, the message) onto the error
// taxonomy. Duplicate username and duplicate registration share 400 with
// validation failures and are told apart by message.
func (e *APIError) Kind() Kind {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		if strings.Contains(strings.ToLower(e.Message), "already") {
			return KindConflict
		}
		return KindValidation
	case e.StatusCode == http.StatusUnauthorized:
		return KindAuthentication
	case e.StatusCode == http.StatusForbidden:
		return KindAuthorization
	case e.StatusCode == http.StatusNotFound:
		return KindNotFound
	default:
		return KindInternal
	}
}

// Inline reports whether the error belongs next to the form that caused it
// rather than in a generic alert.
func (e *APIError) Inline() bool {
	k := e.Kind()
	return k == KindAuthentication || k == KindConflict
}

// KindOf returns the Kind of err, or KindInternal when err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindInternal
}
