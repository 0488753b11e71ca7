package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"advicehub/internal/auth"
	"advicehub/internal/model"
	"advicehub/internal/repository"
)

// maxAdviceLen bounds the content of one advice item.
const maxAdviceLen = 2000

// AdviceHandler implements CRUD over advice items. Create requires any
// authenticated user; update and delete are restricted to the author or an
// admin; reads are public.
type AdviceHandler struct {
	Advice *repository.AdviceRepo
}

func NewAdviceHandler(a *repository.AdviceRepo) *AdviceHandler {
	if a == nil {
		panic("nil repository passed to NewAdviceHandler")
	}
	return &AdviceHandler{Advice: a}
}

type adviceReq struct {
	Content string `json:"content"`
}

// Create handles POST /v1/advice.
func (h *AdviceHandler) Create(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return fail(c, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
	}
	var req adviceReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body could not be parsed")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" || len(req.Content) > maxAdviceLen {
		return fail(c, http.StatusBadRequest, "invalid_body", "content must be 1-2000 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a, err := h.Advice.Create(ctx, req.Content, p.UserID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "create advice failed")
	}
	return c.JSON(http.StatusCreated, a)
}

// Get handles GET /v1/advice/:id (public).
func (h *AdviceHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid advice id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a, err := h.Advice.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "not_found", "advice not found")
		}
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	return c.JSON(http.StatusOK, a)
}

// List handles GET /v1/advice?limit=&offset= (public, newest first).
func (h *AdviceHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit", 20, 1, 100)
	offset := queryInt(c, "offset", 0, 0, 1<<30)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Advice.List(ctx, limit, offset)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "limit": limit, "offset": offset})
}

// Update handles PUT /v1/advice/:id. Only the author or an admin may edit.
func (h *AdviceHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid advice id")
	}
	var req adviceReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body could not be parsed")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" || len(req.Content) > maxAdviceLen {
		return fail(c, http.StatusBadRequest, "invalid_body", "content must be 1-2000 characters")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a, err := h.Advice.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "not_found", "advice not found")
		}
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	if err := guardOwner(c, a.AuthorID); err != nil {
		return err
	}
	if err := h.Advice.UpdateContent(ctx, id, req.Content); err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "update failed")
	}
	a.Content = req.Content
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/advice/:id. Only the author or an admin may
// delete; rating rows cascade with the item.
func (h *AdviceHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid advice id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	a, err := h.Advice.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "not_found", "advice not found")
		}
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	if err := guardOwner(c, a.AuthorID); err != nil {
		return err
	}
	if err := h.Advice.Delete(ctx, id); err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "delete failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// guardOwner applies the owner-or-admin rule against the loaded record.
func guardOwner(c echo.Context, authorID uint64) error {
	switch err := auth.CheckOwnerOr(principal(c), authorID, model.RoleAdmin); err {
	case nil:
		return nil
	case auth.ErrUnauthenticated:
		return fail(c, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
	default:
		return fail(c, http.StatusForbidden, "forbidden", "only the author or an admin may do this")
	}
}

func queryInt(c echo.Context, name string, def, min, max int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return def
	}
	if n > max {
		return max
	}
	return n
}
