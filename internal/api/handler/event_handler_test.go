package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gdsc/eventhub/internal/core/domain"
	"github.com/gdsc/eventhub/internal/core/ports"
)

type stubEventService struct {
	createFn        func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error)
	getFn           func(ctx context.Context, id string) (*domain.Event, error)
	listFn          func(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error)
	updateFn        func(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	deleteFn        func(ctx context.Context, id string) error
	registerFn      func(ctx context.Context, id string, p domain.Principal) error
	registeredForFn func(ctx context.Context, subjectID string, caller domain.Principal) ([]*domain.Event, error)
}

func (s *stubEventService) Create(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
	return s.createFn(ctx, in)
}

func (s *stubEventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.getFn(ctx, id)
}

func (s *stubEventService) List(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error) {
	return s.listFn(ctx, in)
}

func (s *stubEventService) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubEventService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubEventService) Register(ctx context.Context, id string, p domain.Principal) error {
	return s.registerFn(ctx, id, p)
}

func (s *stubEventService) RegisteredFor(ctx context.Context, subjectID string, caller domain.Principal) ([]*domain.Event, error) {
	return s.registeredForFn(ctx, subjectID, caller)
}

func sampleEvent(id string) *domain.Event {
	return &domain.Event{
		ID:               id,
		Title:            "Go Meetup",
		Date:             time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Time:             "18:00",
		Location:         "Hall A",
		ShortDescription: "short",
		Description:      "long",
		Image:            "https://example.com/a.png",
	}
}

const validEventBody = `{"title":"Go Meetup","date":"2025-03-14","time":"18:00","location":"Hall A",` +
	`"short_description":"short","description":"long","image":"https://example.com/a.png"}`

func TestEventHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		createFn: func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
			if !in.Date.Equal(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected date: %v", in.Date)
			}
			return sampleEvent("e1"), nil
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/api/events", validEventBody), rec)

	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "e1" || resp["date"] != "2025-03-14" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if users, ok := resp["registered_users"].([]any); !ok || len(users) != 0 {
		t.Fatalf("expected empty registered_users array, got %v", resp["registered_users"])
	}
}

func TestEventHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		createFn: func(ctx context.Context, in ports.CreateEventInput) (*domain.Event, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewEventHandler(stub)

	cases := map[string]string{
		"missing title": `{"date":"2025-03-14","time":"18:00","location":"x","short_description":"x","description":"x","image":"x"}`,
		"bad date":      `{"title":"t","date":"14/03/2025","time":"18:00","location":"x","short_description":"x","description":"x","image":"x"}`,
		"empty object":  `{}`,
	}
	for name, body := range cases {
		c := e.NewContext(jsonRequest(http.MethodPost, "/api/events", body), httptest.NewRecorder())
		if err := handler.Create(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestEventHandler_List(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		listFn: func(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error) {
			if in.Title != "go" || in.Page != 2 || in.Limit != 1 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.ListEventsResult{Items: []*domain.Event{sampleEvent("e2")}, Total: 7, Page: 2, Limit: 1}, nil
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/events?q=go&page=2&limit=1", nil), rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Header().Get(HeaderTotalCount); got != "7" {
		t.Fatalf("expected total 7, got %q", got)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0]["id"] != "e2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestEventHandler_List_EmptyIsArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		listFn: func(ctx context.Context, in ports.ListEventsInput) (*ports.ListEventsResult, error) {
			return &ports.ListEventsResult{}, nil
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/events", nil), rec)

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestEventHandler_List_BadPaging(t *testing.T) {
	e := newTestEcho()
	handler := NewEventHandler(&stubEventService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/events?page=abc", nil), httptest.NewRecorder())

	var he *echo.HTTPError
	if err := handler.List(c); !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestEventHandler_Get_NotFound(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		getFn: func(ctx context.Context, id string) (*domain.Event, error) {
			if id != "missing" {
				t.Fatalf("unexpected id: %s", id)
			}
			return nil, domain.ErrEventNotFound
		},
	}
	handler := NewEventHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetPath("/api/events/:id")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := handler.Get(c); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventHandler_Update_PartialPatch(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		updateFn: func(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
			if patch.Title == nil || *patch.Title != "New" {
				t.Fatalf("title not patched: %+v", patch)
			}
			if patch.Date == nil || !patch.Date.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
				t.Fatalf("date not patched: %+v", patch)
			}
			if patch.Location != nil || patch.Image != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			ev := sampleEvent(id)
			ev.Title = *patch.Title
			return ev, nil
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/", `{"title":"New","date":"2025-04-01"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEventHandler_Update_EmptyBody(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		updateFn: func(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
			if !patch.IsEmpty() {
				t.Fatalf("expected empty patch, got %+v", patch)
			}
			return nil, domain.ErrEmptyUpdate
		},
	}
	handler := NewEventHandler(stub)

	for _, body := range []string{"", "{}"} {
		c := e.NewContext(jsonRequest(http.MethodPut, "/", body), httptest.NewRecorder())
		c.SetParamNames("id")
		c.SetParamValues("e1")
		if err := handler.Update(c); !errors.Is(err, domain.ErrEmptyUpdate) {
			t.Fatalf("body %q: expected ErrEmptyUpdate, got %v", body, err)
		}
	}
}

func TestEventHandler_Delete(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		deleteFn: func(ctx context.Context, id string) error {
			if id == "e1" {
				return nil
			}
			return domain.ErrEventNotFound
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("e2")
	if err := handler.Delete(c); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventHandler_Register_UsesPrincipal(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		registerFn: func(ctx context.Context, id string, p domain.Principal) error {
			if id != "e1" || p.SubjectID != "u1" {
				t.Fatalf("unexpected args: %s %+v", id, p)
			}
			return nil
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), domain.Principal{SubjectID: "u1", Role: domain.RoleUser})
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEventHandler_Register_AlreadyRegistered(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		registerFn: func(ctx context.Context, id string, p domain.Principal) error {
			return domain.ErrAlreadyRegistered
		},
	}
	handler := NewEventHandler(stub)

	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/", nil), domain.Principal{SubjectID: "u1"})
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := handler.Register(c); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestEventHandler_Registered(t *testing.T) {
	e := newTestEcho()
	stub := &stubEventService{
		registeredForFn: func(ctx context.Context, subjectID string, caller domain.Principal) ([]*domain.Event, error) {
			if subjectID != "u1" || caller.SubjectID != "u1" {
				t.Fatalf("unexpected args: %s %+v", subjectID, caller)
			}
			return []*domain.Event{sampleEvent("e1")}, nil
		},
	}
	handler := NewEventHandler(stub)

	rec := httptest.NewRecorder()
	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil), domain.Principal{SubjectID: "u1"})
	c := e.NewContext(req, rec)
	c.SetParamNames("userId")
	c.SetParamValues("u1")

	if err := handler.Registered(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected one event, got %d", len(resp))
	}
}
