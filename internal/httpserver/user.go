package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_users")

	res, err := h.Svc.List(ctx, principal(c), pageFrom(c), c.QueryParam("search"), c.QueryParam("role"))
	if err != nil {
		return fail(l, "get_users_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *UserHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_user")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	user, err := h.Svc.Get(ctx, principal(c), id)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_user_failed", err)
	}
	user, err := h.Svc.Create(ctx, principal(c), req)
	if err != nil {
		return fail(l, "create_user_failed", err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "update_user_failed", err)
	}
	var req transport.UpdateUserRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "update_user_failed", err)
	}
	user, err := h.Svc.Update(ctx, principal(c), id, req)
	if err != nil {
		return fail(l, "update_user_failed", err)
	}

	l.Info("update_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_user_failed", err)
	}
	user, err := h.Svc.Delete(ctx, principal(c), id)
	if err != nil {
		return fail(l, "delete_user_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}
