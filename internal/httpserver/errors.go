package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

var kinds = []struct {
	err    error
	status int
	kind   string
}{
	{service.ErrValidation, http.StatusBadRequest, "validation_error"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{service.ErrForbidden, http.StatusForbidden, "forbidden"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
}

// HTTPErrorHandler renders every error as {"kind", "message"}. Unknown errors
// become a 500 and are logged with their cause, which is never sent out.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, body := resolveError(err)
	if code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", code, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, body)
}

func resolveError(err error) (int, transport.ErrorResponse) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, transport.ErrorResponse{Kind: kindForStatus(he.Code), Message: fmt.Sprint(he.Message)}
	}

	for _, k := range kinds {
		if errors.Is(err, k.err) {
			msg := err.Error()
			var se *service.Error
			if errors.As(err, &se) {
				msg = se.Message
			}
			return k.status, transport.ErrorResponse{Kind: k.kind, Message: msg}
		}
	}

	return http.StatusInternalServerError, transport.ErrorResponse{Kind: "internal", Message: "internal server error"}
}

func kindForStatus(code int) string {
	for _, k := range kinds {
		if k.status == code {
			return k.kind
		}
	}
	if code >= http.StatusInternalServerError {
		return "internal"
	}
	return "http_error"
}
