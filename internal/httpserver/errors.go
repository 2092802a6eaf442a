package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const serverError = "Server Error"

func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindMalformedID:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageOf returns the client-facing message of an *apperr.Error without
// its details or cause.
func messageOf(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind != apperr.KindInternal {
		return e.Message
	}
	return serverError
}

func detailsOf(err error) []string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// ErrorHandler is the fallback for every error a handler or middleware
// returns. Diagnostic detail is only rendered when development is set.
func ErrorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := renderError(err, c, development)
		if status >= 500 {
			logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", err)
		}
	}
}

func renderError(err error, c echo.Context, development bool) (int, transport.ErrorResponse) {
	body := transport.ErrorResponse{Success: false}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		body.Error = httpErrorMessage(he)
		if he.Code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
			body.Error = fmt.Sprintf("Not Found - %s %s", c.Request().Method, c.Request().URL.RequestURI())
		}
		if development && he.Internal != nil {
			body.Stack = he.Internal.Error()
		}
		return he.Code, body
	}

	kind := apperr.KindOf(err)
	status := statusOf(kind)
	body.Error = messageOf(err)
	if d := detailsOf(err); len(d) > 0 {
		body.Details = strings.Join(d, ", ")
	}
	if development {
		body.Stack = err.Error()
	}
	return status, body
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}
