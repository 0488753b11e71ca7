package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
    "net/http" // HTTP status codes for responses
    "strings"  // string utilities for prefix checking and trimming

    "github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

    "advicehub/internal/auth" // token validation and the request principal
)

// principalKey is the echo context key under which the access filter stores
// the authenticated principal for the rest of the request.
const principalKey = "principal"

// AccessFilter returns an Echo middleware that validates a Bearer access
// token and stores the resulting principal in the request context. Routes in
// the public allow-list are simply not wrapped with this middleware, so every
// request reaching it must present a token. All validation failures collapse
// into the same 401 body: callers are not told whether the token was missing,
// expired, malformed or forged. The filter never consults the user store —
// role claims are trusted for the token's lifetime, and the token TTL bounds
// how stale they can get.
func AccessFilter(tokens *auth.TokenService) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // A valid header is "Bearer " followed by the compact token.
            header := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(header, "Bearer ") {
                return unauthenticated(c)
            }
            raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
            if raw == "" {
                return unauthenticated(c)
            }

            userID, roles, err := tokens.Validate(raw)
            if err != nil {
                return unauthenticated(c)
            }

            // The principal is request-scoped; downstream middleware and
            // handlers read it via CurrentPrincipal.
            c.Set(principalKey, &auth.Principal{UserID: userID, Roles: roles})
            return next(c)
        }
    }
}

// CurrentPrincipal returns the principal the access filter stored for this
// request, or nil when the request is unauthenticated (public route, or the
// filter was not applied).
func CurrentPrincipal(c echo.Context) *auth.Principal {
    if p, ok := c.Get(principalKey).(*auth.Principal); ok {
        return p
    }
    return nil
}

func unauthenticated(c echo.Context) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{
        "error":   "unauthenticated",
        "message": "a valid bearer token is required",
    })
}
