// Package memory holds process-local repositories. They back the server's
// in-memory mode and the HTTP tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
)

// UserRepository implements ports.UserRepository in memory.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User // keyed by username
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return nil, domain.ErrUserExists
	}
	u := *user
	u.ID = newID()
	r.users[u.Username] = u
	return &u, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// EventRepository implements ports.EventRepository in memory. Every method
// holds the lock for its whole read-modify-write.
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]*domain.Event)}
}

func (r *EventRepository) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := clone(e)
	stored.ID = newID()
	if stored.RegisteredUsers == nil {
		stored.RegisteredUsers = []string{}
	}
	r.events[stored.ID] = stored
	return clone(stored), nil
}

func (r *EventRepository) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return clone(e), nil
}

func (r *EventRepository) List(_ context.Context, f ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	needle := strings.ToLower(f.Title)
	all := r.matching(func(e *domain.Event) bool {
		return needle == "" || strings.Contains(strings.ToLower(e.Title), needle)
	})

	total := int64(len(all))
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.Limit
		if start > len(all) {
			start = len(all)
		}
		end := start + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (r *EventRepository) ListByRegistrant(_ context.Context, subjectID string) ([]*domain.Event, error) {
	return r.matching(func(e *domain.Event) bool { return e.IsRegistered(subjectID) }), nil
}

func (r *EventRepository) Update(_ context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Time != nil {
		e.Time = *patch.Time
	}
	if patch.Location != nil {
		e.Location = *patch.Location
	}
	if patch.ShortDescription != nil {
		e.ShortDescription = *patch.ShortDescription
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Image != nil {
		e.Image = *patch.Image
	}
	e.UpdatedAt = time.Now().UTC()
	return clone(e), nil
}

func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *EventRepository) AddRegistrant(_ context.Context, id, subjectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	if e.IsRegistered(subjectID) {
		return domain.ErrAlreadyRegistered
	}
	e.RegisteredUsers = append(e.RegisteredUsers, subjectID)
	e.UpdatedAt = time.Now().UTC()
	return nil
}

// matching returns copies of the events accepted by keep, ordered by date.
func (r *EventRepository) matching(keep func(*domain.Event) bool) []*domain.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		if keep(e) {
			out = append(out, clone(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt) ||
			(out[i].CreatedAt.Equal(out[j].CreatedAt) && out[i].ID < out[j].ID)
	})
	return out
}

func clone(e *domain.Event) *domain.Event {
	c := *e
	c.RegisteredUsers = append([]string{}, e.RegisteredUsers...)
	return &c
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
