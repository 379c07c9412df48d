package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ebhcs/bulletin-board/internal/core/domain"
	"github.com/ebhcs/bulletin-board/internal/core/service"
	"github.com/ebhcs/bulletin-board/internal/imaging"
)

func handleError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/bulletins", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error envelope: %v (%s)", err, rec.Body.String())
	}
	return rec.Code, body.Error
}

func TestErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{domain.ErrBulletinNotFound, http.StatusNotFound, "This bulletin is no longer available."},
		{domain.ErrForbidden, http.StatusForbidden, "You can only edit your own bulletins."},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "Please sign in to continue."},
		{domain.ErrLockedOut, http.StatusTooManyRequests, "Too many failed attempts. Please try again in 15 minutes."},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect username or password."},
		{domain.ErrUserNotFound, http.StatusUnauthorized, "Incorrect username or password."},
		{domain.ErrUserDisabled, http.StatusForbidden, "This account has been disabled. Please contact the office."},
		{domain.ErrUserExists, http.StatusConflict, "An account with that username already exists."},
		{domain.ErrWeakPassword, http.StatusBadRequest, "Password should be at least 8 characters."},
		{imaging.ErrTooLarge, http.StatusRequestEntityTooLarge, "Image is too large. Please choose a file under 10 MB."},
		{imaging.ErrCeilingExceeded, http.StatusRequestEntityTooLarge, "Image could not be compressed enough. Please choose a smaller image."},
		{imaging.ErrUnsupportedType, http.StatusUnsupportedMediaType, "That file type is not supported. Please choose a JPEG, PNG, GIF or WebP image."},
		{imaging.ErrUndecodable, http.StatusUnsupportedMediaType, "That file type is not supported. Please choose a JPEG, PNG, GIF or WebP image."},
		{domain.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge, "Attachment is too large to store."},
		{domain.ErrUnavailable, http.StatusServiceUnavailable, "The bulletin board is temporarily unavailable. Please try again."},
		{domain.ErrTimeout, http.StatusGatewayTimeout, "The request timed out. Please try again."},
	}
	for _, tc := range cases {
		code, msg := handleError(t, tc.err)
		if code != tc.code || msg != tc.msg {
			t.Fatalf("%v: got %d %q, want %d %q", tc.err, code, msg, tc.code, tc.msg)
		}
	}
}

func TestErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	code, _ := handleError(t, fmt.Errorf("load bulletin: %w", domain.ErrBulletinNotFound))
	if code != http.StatusNotFound {
		t.Fatalf("wrapped sentinel not mapped, got %d", code)
	}
}

func TestErrorHandler_ValidationMessagePassesThrough(t *testing.T) {
	code, msg := handleError(t, fmt.Errorf("%w: title is required", domain.ErrValidation))
	if code != http.StatusBadRequest {
		t.Fatalf("got %d", code)
	}
	if !strings.Contains(msg, "title is required") {
		t.Fatalf("validation detail lost: %q", msg)
	}
}

func TestErrorHandler_IdentifierErrorsPassThrough(t *testing.T) {
	for _, err := range []error{service.ErrEmptyIdentifier, service.ErrWrongDomain, service.ErrBadUsername} {
		code, msg := handleError(t, err)
		if code != http.StatusBadRequest {
			t.Fatalf("%v: got %d", err, code)
		}
		if msg != err.Error() {
			t.Fatalf("%v: message rewritten to %q", err, msg)
		}
	}
}

func TestErrorHandler_EchoHTTPErrorPassesThrough(t *testing.T) {
	code, msg := handleError(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if code != http.StatusTeapot || msg != "short and stout" {
		t.Fatalf("got %d %q", code, msg)
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	code, msg := handleError(t, errors.New("pq: connection refused"))
	if code != http.StatusInternalServerError {
		t.Fatalf("got %d", code)
	}
	if msg != "Something went wrong. Please try again." {
		t.Fatalf("internal detail leaked: %q", msg)
	}
	if strings.Contains(msg, "connection refused") {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}
