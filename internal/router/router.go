package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"advicehub/internal/auth"       // token service consumed by the access filter
	"advicehub/internal/handler"    // handlers implementing the endpoints
	"advicehub/internal/middleware" // access filter, role guard, rate limit, cache
	"advicehub/internal/model"
)

// RegisterRoutes registers routes that never require authentication. The
// health check is used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the credential endpoints. Register/login/refresh/logout
// form the public allow-list of the auth surface; /v1/me sits behind the
// access filter. The limit middleware (Redis token bucket) throttles the
// credential endpoints so password guessing is slowed down; pass nil to run
// without it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *auth.TokenService, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limit != nil {
		g.Use(limit)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.AccessFilter(tokens))
	me.GET("/me", a.Me)
}

// RegisterAdvice wires the advice CRUD and rating endpoints. Reads are
// public; the top-rated listing additionally goes through the Redis response
// cache when one is configured. Writes require a valid bearer token, and
// edit/delete apply the owner-or-admin rule inside the handler where the
// record's author is known.
func RegisterAdvice(e *echo.Echo, adv *handler.AdviceHandler, rt *handler.RatingHandler, tokens *auth.TokenService, cache echo.MiddlewareFunc) {
	// Public browse endpoints.
	e.GET("/v1/advice", adv.List)
	e.GET("/v1/advice/:id", adv.Get)
	e.GET("/v1/advice/:id/ratings", rt.ListForAdvice)
	if cache != nil {
		e.GET("/v1/advice/top-rated", rt.TopRated, cache)
	} else {
		e.GET("/v1/advice/top-rated", rt.TopRated)
	}

	// Authenticated writes.
	w := e.Group("/v1")
	w.Use(middleware.AccessFilter(tokens))
	w.POST("/advice", adv.Create)
	w.PUT("/advice/:id", adv.Update)
	w.DELETE("/advice/:id", adv.Delete)
	w.POST("/advice/:id/rate", rt.Rate)
	w.GET("/advice/:id/rating", rt.MyRating)
}

// RegisterAdmin wires the user-management endpoints behind the access filter
// plus the ADMIN role requirement. Requests with a valid token but no ADMIN
// role get 403 before any handler runs.
func RegisterAdmin(e *echo.Echo, adm *handler.AdminHandler, tokens *auth.TokenService) {
	g := e.Group("/v1/admin")
	g.Use(middleware.AccessFilter(tokens))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.PUT("/users/:id/roles", adm.UpdateRoles)
	g.DELETE("/users/:id", adm.Disable)
}
