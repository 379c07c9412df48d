package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/service"
	"github.com/ebhcs/bulletin-board/internal/imaging"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes and
//     user-facing messages.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes and messages shown
	// verbatim to the user.
	switch {
	case errors.Is(err, domain.ErrBulletinNotFound):
		return http.StatusNotFound, "This bulletin is no longer available."
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You can only edit your own bulletins."
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Please sign in to continue."
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrLockedOut):
		return http.StatusTooManyRequests, "Too many failed attempts. Please try again in 15 minutes."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect username or password."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, "Incorrect username or password."
	case errors.Is(err, domain.ErrUserDisabled):
		return http.StatusForbidden, "This account has been disabled. Please contact the office."
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "An account with that username already exists."
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusBadRequest, "Password should be at least 8 characters."
	case errors.Is(err, service.ErrEmptyIdentifier),
		errors.Is(err, service.ErrWrongDomain),
		errors.Is(err, service.ErrBadUsername):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, imaging.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "Image is too large. Please choose a file under 10 MB."
	case errors.Is(err, imaging.ErrCeilingExceeded):
		return http.StatusRequestEntityTooLarge, "Image could not be compressed enough. Please choose a smaller image."
	case errors.Is(err, imaging.ErrUnsupportedType), errors.Is(err, imaging.ErrUndecodable):
		return http.StatusUnsupportedMediaType, "That file type is not supported. Please choose a JPEG, PNG, GIF or WebP image."
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Attachment is too large to store."
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable, "The bulletin board is temporarily unavailable. Please try again."
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, "The request timed out. Please try again."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong. Please try again."
}
