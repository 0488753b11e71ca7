package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"advicehub/internal/auth"
	"advicehub/internal/middleware"
	"advicehub/internal/service"
)

// newRatingServer wires the rating endpoint behind the access filter the way
// the router does. The rating service carries no storage; only paths that
// fail before touching storage are exercised here.
func newRatingServer(tokens *auth.TokenService) *echo.Echo {
	e := echo.New()
	h := NewRatingHandler(service.NewRatingService(nil, nil, nil, "cache"), nil)
	g := e.Group("/v1")
	g.Use(middleware.AccessFilter(tokens))
	g.POST("/advice/:id/rate", h.Rate)
	return e
}

func TestRate_Unauthenticated(t *testing.T) {
	tokens := auth.NewTokenService("rate-secret", 60)
	e := newRatingServer(tokens)

	req := httptest.NewRequest(http.MethodPost, "/v1/advice/1/rate", strings.NewReader(`{"score":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRate_InvalidScore(t *testing.T) {
	tokens := auth.NewTokenService("rate-secret", 60)
	e := newRatingServer(tokens)
	raw, _, err := tokens.Issue(7, []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for _, body := range []string{`{"score":0}`, `{"score":6}`, `{"score":-3}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/advice/1/rate", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestRate_InvalidID(t *testing.T) {
	tokens := auth.NewTokenService("rate-secret", 60)
	e := newRatingServer(tokens)
	raw, _, err := tokens.Issue(7, []string{"USER"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/advice/abc/rate", strings.NewReader(`{"score":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
