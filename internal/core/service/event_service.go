package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
	"github.com/gdsc/eventhub/internal/pkg/metrics"
)

const maxListLimit = 100

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

func (s *eventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:            strings.TrimSpace(in.Title),
		Date:             truncateToDate(in.Date),
		Time:             strings.TrimSpace(in.Time),
		Location:         strings.TrimSpace(in.Location),
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		Description:      strings.TrimSpace(in.Description),
		Image:            strings.TrimSpace(in.Image),
		RegisteredUsers:  []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event")
		return nil, fmt.Errorf("create event: %w", err)
	}

	metrics.EventMutationsTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("event_id", created.ID).Msg("event created")
	return created, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) List(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error) {
	limit := in.Limit
	if limit < 0 {
		limit = 0
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	page := in.Page
	if page < 1 {
		page = 1
	}
	// Keep (page-1)*limit within int; such a page is past the end anyway.
	if limit > 0 && page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	items, total, err := s.repo.List(ctx, ports.ListEventsFilter{
		Title: strings.TrimSpace(in.Title),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return &ports.ListEventsResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *eventService) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	if patch.IsEmpty() {
		return nil, domain.ErrEmptyUpdate
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	metrics.EventMutationsTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("event_id", id).Msg("event updated")
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.EventMutationsTotal.WithLabelValues("delete").Inc()
	s.log.Info().Str("event_id", id).Msg("event deleted")
	return nil
}

// Register adds the principal to the event's registered users. The duplicate
// check and the append happen in one store operation.
func (s *eventService) Register(ctx context.Context, id string, p domain.Principal) error {
	if p.SubjectID == "" {
		return domain.ErrUnauthenticated
	}

	err := s.repo.AddRegistrant(ctx, id, p.SubjectID)
	switch {
	case err == nil:
		metrics.EventRegistrationsTotal.WithLabelValues("registered").Inc()
		s.log.Info().Str("event_id", id).Str("user_id", p.SubjectID).Msg("user registered for event")
		return nil
	case errors.Is(err, domain.ErrAlreadyRegistered):
		metrics.EventRegistrationsTotal.WithLabelValues("duplicate").Inc()
		return err
	case errors.Is(err, domain.ErrEventNotFound):
		metrics.EventRegistrationsTotal.WithLabelValues("not_found").Inc()
		return err
	default:
		return fmt.Errorf("register for event: %w", err)
	}
}

func (s *eventService) RegisteredFor(ctx context.Context, subjectID string, caller domain.Principal) ([]*domain.Event, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	if !caller.IsAdmin() && caller.SubjectID != subjectID {
		return nil, domain.ErrForbidden
	}
	return s.repo.ListByRegistrant(ctx, subjectID)
}

func validateCreate(in ports.CreateEventInput) error {
	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"time", in.Time},
		{"location", in.Location},
		{"short_description", in.ShortDescription},
		{"description", in.Description},
		{"image", in.Image},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	return nil
}

// validatePatch rejects fields that are present but blank, and normalises the
// rest in place.
func validatePatch(p *domain.EventPatch) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"title", p.Title},
		{"time", p.Time},
		{"location", p.Location},
		{"short_description", p.ShortDescription},
		{"description", p.Description},
		{"image", p.Image},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrValidation, f.name)
		}
	}
	if p.Date != nil {
		if p.Date.IsZero() {
			return fmt.Errorf("%w: date cannot be empty", domain.ErrValidation)
		}
		d := truncateToDate(*p.Date)
		p.Date = &d
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
