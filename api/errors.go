package api

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-social-feed/internal/apperr"
	"github.com/labstack/echo/v4"
)

// errorBody is the shape of every error response.
type errorBody struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	err = fromEchoError(err)
	status := apperr.HTTPStatus(err)
	body := errorBody{
		Error:     apperr.Message(err),
		Code:      apperr.TextCode(err),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).
			Str("request_id", body.RequestID).
			Str("uri", c.Request().RequestURI).
			Msg("request failed")
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		s.logger.Error().Err(writeErr).Msg("failed to write error response")
	}
}

// fromEchoError converts framework errors (unknown route, bad body, limiter) into categorized ones.
func fromEchoError(err error) error {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return err
	}

	message := http.StatusText(he.Code)
	if m, ok := he.Message.(string); ok && m != "" {
		message = m
	} else if he.Message != nil {
		message = fmt.Sprint(he.Message)
	}

	switch he.Code {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		return goerrors.New(message, goerrors.CategoryBadInput).WithTextCode("BAD_REQUEST")
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return goerrors.New(message, goerrors.CategoryNotFound).WithTextCode(apperr.CodeNotFound)
	case http.StatusTooManyRequests:
		return goerrors.New(message, goerrors.CategoryRateLimit).WithTextCode("RATE_LIMITED")
	case http.StatusForbidden:
		return goerrors.New(message, goerrors.CategoryBadInput).WithTextCode("FORBIDDEN")
	default:
		return err
	}
}
