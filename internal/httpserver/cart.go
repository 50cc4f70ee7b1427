package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCarts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_carts")

	res, err := h.Svc.List(ctx, principal(c), pageFrom(c))
	if err != nil {
		return fail(l, "get_carts_failed", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	cart, err := h.Svc.Get(ctx, principal(c), id)
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) CreateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create")

	var req transport.CartRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_cart_failed", err)
	}
	cart, err := h.Svc.Create(ctx, principal(c), req)
	if err != nil {
		return fail(l, "create_cart_failed", err)
	}

	l.Info("create_cart_success", "cart_id", cart.ID)
	return c.JSON(http.StatusCreated, cart)
}

func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "update_cart_failed", err)
	}
	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "update_cart_failed", bindError(err))
	}
	// ownership is checked before the payload, see CartService
	cart, err := h.Svc.Update(ctx, principal(c), id, req)
	if err != nil {
		return fail(l, "update_cart_failed", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) DeleteCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	id, err := parseID(c)
	if err != nil {
		return fail(l, "delete_cart_failed", err)
	}
	cart, err := h.Svc.Delete(ctx, principal(c), id)
	if err != nil {
		return fail(l, "delete_cart_failed", err)
	}

	l.Info("delete_cart_success", "cart_id", cart.ID)
	return c.JSON(http.StatusOK, cart)
}
