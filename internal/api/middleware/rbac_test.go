package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gdsc/eventhub/internal/core/domain"
)

func runRBAC(t *testing.T, p *domain.Principal, roles []string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p != nil {
		req = req.WithContext(domain.ContextWithPrincipal(req.Context(), *p))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := RequireRole(roles...)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireRole_Allows(t *testing.T) {
	called := false
	rec := runRBAC(t, &domain.Principal{SubjectID: "u1", Role: domain.RoleAdmin}, []string{domain.RoleAdmin}, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	rec := runRBAC(t, &domain.Principal{SubjectID: "u1", Role: domain.RoleUser}, []string{domain.RoleAdmin}, mustNotCall(t))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_NoRolesPassesAnyPrincipal(t *testing.T) {
	rec := runRBAC(t, &domain.Principal{SubjectID: "u1", Role: domain.RoleUser}, nil, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	rec := runRBAC(t, nil, []string{domain.RoleAdmin}, mustNotCall(t))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
