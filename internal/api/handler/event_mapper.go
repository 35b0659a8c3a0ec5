package handler

import (
	"fmt"
	"time"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
)

// --- Request → Service input ---

func toCreateEventInput(req createEventRequest) (ports.CreateEventInput, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return ports.CreateEventInput{}, err
	}
	return ports.CreateEventInput{
		Title:            req.Title,
		Date:             date,
		Time:             req.Time,
		Location:         req.Location,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Image:            req.Image,
	}, nil
}

func toEventPatch(req updateEventRequest) (domain.EventPatch, error) {
	patch := domain.EventPatch{
		Title:            req.Title,
		Time:             req.Time,
		Location:         req.Location,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Image:            req.Image,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return domain.EventPatch{}, err
		}
		patch.Date = &date
	}
	return patch, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", domain.ErrValidation)
	}
	return t, nil
}

// --- Service result → HTTP response ---

func toEventResponse(e *domain.Event) eventResponse {
	registered := e.RegisteredUsers
	if registered == nil {
		registered = []string{}
	}
	return eventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Date:             e.Date.UTC().Format(domain.DateLayout),
		Time:             e.Time,
		Location:         e.Location,
		ShortDescription: e.ShortDescription,
		Description:      e.Description,
		Image:            e.Image,
		RegisteredUsers:  registered,
		CreatedAt:        e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toEventResponses(events []*domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}
