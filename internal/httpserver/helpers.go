package httpserver

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/util"
	middleware "github.com/Skotchmaster/shop_api/pkg/middleware/auth"
)

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &service.Error{Kind: service.ErrValidation, Message: "id must be a positive integer"}
	}
	return uint(id), nil
}

func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return bindError(err)
	}
	return c.Validate(req)
}

func pageFrom(c echo.Context) util.Page {
	return util.FromQuery(c.QueryParam("page"), c.QueryParam("limit"))
}

// principal is only called behind RequireAuth.
func principal(c echo.Context) auth.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

// fail logs the failure at a level matching its kind and hands it to the
// error handler.
func fail(l *slog.Logger, event string, err error) error {
	var se *service.Error
	var he *echo.HTTPError
	if errors.As(err, &se) || errors.As(err, &he) {
		l.Warn(event, "reason", err.Error())
		return err
	}
	l.Error(event, "error", err)
	return err
}
