package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

// AccountHTTP serves /me. None of its routes take an id.
type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) GetMyInfo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.get")

	user, err := h.Svc.GetMyInfo(ctx, principal(c))
	if err != nil {
		return fail(l, "get_my_info_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHTTP) EditMyInfo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.edit")

	var req transport.UpdateAccountRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "edit_my_info_failed", err)
	}
	user, err := h.Svc.EditMyInfo(ctx, principal(c), req)
	if err != nil {
		return fail(l, "edit_my_info_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AccountHTTP) RemoveMyAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.remove")

	user, err := h.Svc.RemoveMyAccount(ctx, principal(c))
	if err != nil {
		return fail(l, "remove_my_account_failed", err)
	}

	l.Info("remove_my_account_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, user)
}
