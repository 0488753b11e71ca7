package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"advicehub/internal/model"
	"advicehub/internal/repository"
)

// AdminHandler implements the user-management endpoints. Routes using it are
// wrapped with the ADMIN role requirement; handlers still re-check nothing —
// the guard already ran.
type AdminHandler struct {
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAdminHandler(u *repository.UserRepo, t *repository.TokenRepo) *AdminHandler {
	return &AdminHandler{Users: u, Tokens: t}
}

type rolesReq struct {
	Roles []string `json:"roles"`
}

// UpdateRoles handles PUT /v1/admin/users/:id/roles. The new set takes
// effect on the user's next token issuance; outstanding tokens keep their
// claims until expiry.
func (h *AdminHandler) UpdateRoles(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid user id")
	}
	var req rolesReq
	if err := c.Bind(&req); err != nil || len(req.Roles) == 0 {
		return fail(c, http.StatusBadRequest, "invalid_body", "roles array is required")
	}
	for _, r := range req.Roles {
		if !model.ValidRole(r) {
			return fail(c, http.StatusBadRequest, "invalid_body", "unknown role: "+r)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "not_found", "user not found")
		}
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	if err := h.Users.UpdateRoles(ctx, id, req.Roles); err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "update roles failed")
	}
	u.Roles = model.ParseRoles(model.JoinRoles(req.Roles))
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Roles: u.Roles})
}

// Disable handles DELETE /v1/admin/users/:id. Users are soft-disabled, never
// hard-deleted: their ratings and advice keep valid references. Active
// refresh tokens are revoked so the account cannot mint new access tokens;
// outstanding access tokens run out their TTL.
func (h *AdminHandler) Disable(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid user id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "not_found", "user not found")
		}
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	if err := h.Users.Disable(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "disable failed")
	}
	_ = h.Tokens.RevokeAllForUser(ctx, id)
	return c.NoContent(http.StatusNoContent)
}
