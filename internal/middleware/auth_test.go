package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"advicehub/internal/auth"
	"advicehub/internal/model"
)

func runFiltered(t *testing.T, tokens *auth.TokenService, authHeader string) (*httptest.ResponseRecorder, bool, *auth.Principal) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	var seen *auth.Principal
	h := AccessFilter(tokens)(func(c echo.Context) error {
		reached = true
		seen = CurrentPrincipal(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler chain: %v", err)
	}
	return rec, reached, seen
}

func TestAccessFilter_MissingToken(t *testing.T) {
	tokens := auth.NewTokenService("filter-secret", 60)
	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		rec, reached, _ := runFiltered(t, tokens, header)
		if reached {
			t.Errorf("header %q: handler reached without valid token", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestAccessFilter_InvalidToken(t *testing.T) {
	tokens := auth.NewTokenService("filter-secret", 60)
	other := auth.NewTokenService("other-secret", 60)
	forged, _, err := other.Issue(1, []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	for _, raw := range []string{"garbage", forged} {
		rec, reached, _ := runFiltered(t, tokens, "Bearer "+raw)
		if reached {
			t.Errorf("token %q: handler reached", raw)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("token %q: status = %d, want 401", raw, rec.Code)
		}
	}
}

func TestAccessFilter_ValidToken(t *testing.T) {
	tokens := auth.NewTokenService("filter-secret", 60)
	raw, _, err := tokens.Issue(42, []string{"USER", "ADMIN"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	rec, reached, p := runFiltered(t, tokens, "Bearer "+raw)
	if !reached {
		t.Fatal("handler not reached with valid token")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if p == nil || p.UserID != 42 {
		t.Fatalf("principal = %+v, want user 42", p)
	}
	if !p.HasRole(model.RoleAdmin) {
		t.Errorf("principal lost ADMIN role: %+v", p)
	}
}

func withPrincipal(p *auth.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p != nil {
				c.Set(principalKey, p)
			}
			return next(c)
		}
	}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name       string
		p          *auth.Principal
		wantStatus int
	}{
		{"no principal", nil, http.StatusUnauthorized},
		{"wrong role", &auth.Principal{UserID: 1, Roles: []string{"USER"}}, http.StatusForbidden},
		{"admin", &auth.Principal{UserID: 2, Roles: []string{"USER", "ADMIN"}}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := withPrincipal(tc.p)(RequireRole(model.RoleAdmin)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}))
			if err := h(c); err != nil {
				t.Fatalf("handler chain: %v", err)
			}
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
		})
	}
}
