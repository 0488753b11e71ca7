package middleware // middleware provides shared request processing for handlers

import (
    "net/http" // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context

    "advicehub/internal/auth"
    "advicehub/internal/model"
)

// Require returns a middleware that evaluates a static role requirement
// against the principal stored by AccessFilter. A request with no principal
// on a protected operation gets 401; an authenticated request whose role set
// does not satisfy the requirement gets 403. Ownership rules need the target
// record and are checked inside handlers with auth.CheckOwnerOr instead.
func Require(req auth.Requirement) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            switch err := req.Check(CurrentPrincipal(c)); err {
            case nil:
                return next(c)
            case auth.ErrUnauthenticated:
                return unauthenticated(c)
            default:
                return c.JSON(http.StatusForbidden, echo.Map{
                    "error":   "forbidden",
                    "message": "insufficient role for this operation",
                })
            }
        }
    }
}

// RequireRole is shorthand for Require(auth.RequireRoles(...)).
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
    return Require(auth.RequireRoles(roles...))
}
