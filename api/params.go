package api

import (
	"strconv"

	"github.com/goliatone/go-social-feed/feed"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/goliatone/go-social-feed/model"
	"github.com/labstack/echo/v4"
)

// queryLimit reads ?limit, defaulting to feed.DefaultLimit and clamping to [1, feed.MaxLimit].
// A non-numeric value is a validation error.
func queryLimit(c echo.Context) (int, error) {
	raw := c.QueryParam("limit")
	if raw == "" {
		return feed.DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("limit must be an integer")
	}
	return clamp(n, 1, feed.MaxLimit), nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// queryFeedCursor reads ?cursor as an epoch-ms integer. Absent means the first page.
func queryFeedCursor(c echo.Context) (*int64, error) {
	raw := c.QueryParam("cursor")
	if raw == "" {
		return nil, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperr.Validation("cursor must be an epoch-ms integer")
	}
	if !model.ValidScore(ms) {
		return nil, apperr.Validation("cursor is out of range")
	}
	return &ms, nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return apperr.Validation("request body must be valid JSON")
	}
	return nil
}
