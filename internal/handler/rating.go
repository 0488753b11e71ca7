package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"advicehub/internal/repository"
	"advicehub/internal/service"
)

// RatingHandler exposes rating submission, rating reads and the top-rated
// listing.
type RatingHandler struct {
	Ratings *service.RatingService
	Store   *repository.RatingRepo
}

func NewRatingHandler(s *service.RatingService, store *repository.RatingRepo) *RatingHandler {
	if s == nil {
		panic("nil service passed to NewRatingHandler")
	}
	return &RatingHandler{Ratings: s, Store: store}
}

type rateReq struct {
	Score int `json:"score"`
}

type rateResp struct {
	AdviceID uint64  `json:"advice_id"`
	Average  float64 `json:"average"`
	Count    uint64  `json:"count"`
}

// Rate handles POST /v1/advice/:id/rate. Requires an authenticated subject;
// the submission replaces any earlier rating by the same user and returns
// the recomputed aggregate.
func (h *RatingHandler) Rate(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return fail(c, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
	}
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid advice id")
	}
	var req rateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid_body", "request body could not be parsed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	average, count, err := h.Ratings.Submit(ctx, id, p.UserID, req.Score)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, rateResp{AdviceID: id, Average: average, Count: count})
	case errors.Is(err, service.ErrInvalidScore):
		return fail(c, http.StatusBadRequest, "invalid_score", "score must be an integer between 1 and 5")
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "not_found", "advice not found")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "conflict", "could not record rating, please retry")
	default:
		return fail(c, http.StatusInternalServerError, "internal", "rating submission failed")
	}
}

// MyRating handles GET /v1/advice/:id/rating. Returns the caller's own
// rating for the item, or 404 when they have not rated it.
func (h *RatingHandler) MyRating(c echo.Context) error {
	p := principal(c)
	if p == nil {
		return fail(c, http.StatusUnauthorized, "unauthenticated", "a valid bearer token is required")
	}
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid advice id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rt, err := h.Store.GetByTargetAndSubject(ctx, id, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "not_found", "no rating for this advice")
		}
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	return c.JSON(http.StatusOK, rt)
}

// ListForAdvice handles GET /v1/advice/:id/ratings (public). Returns every
// rating row for one item, oldest first.
func (h *RatingHandler) ListForAdvice(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid_id", "invalid advice id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Store.AllForTarget(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// TopRated handles GET /v1/advice/top-rated?limit=N (public). The response
// order is deterministic: average, count, creation time, id, all descending.
func (h *RatingHandler) TopRated(c echo.Context) error {
	limit := queryInt(c, "limit", 10, 1, 100)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Ratings.TopRated(ctx, limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "internal", "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
