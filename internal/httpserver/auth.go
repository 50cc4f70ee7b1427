package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

const refreshHeader = "refresh-token"

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "signup_failed", err)
	}
	user, err := h.Svc.Signup(ctx, req)
	if err != nil {
		return fail(l, "signup_failed", err)
	}

	l.Info("signup_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

// Login accepts a JSON body or an urlencoded form.
func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "login_failed", err)
	}
	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	return c.JSON(http.StatusOK, tokenResponse(res))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	token, err := refreshToken(c)
	if err != nil {
		return fail(l, "refresh_failed", err)
	}
	if token == "" {
		return fail(l, "refresh_failed", echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token"))
	}
	res, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		return fail(l, "refresh_failed", err)
	}

	return c.JSON(http.StatusOK, tokenResponse(res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	token, err := refreshToken(c)
	if err != nil {
		return fail(l, "logout_failed", err)
	}
	if err := h.Svc.LogOut(ctx, token); err != nil {
		return fail(l, "logout_failed", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

// refreshToken reads the refresh-token header and falls back to the JSON body.
func refreshToken(c echo.Context) (string, error) {
	if v := strings.TrimSpace(c.Request().Header.Get(refreshHeader)); v != "" {
		return v, nil
	}
	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return "", bindError(err)
	}
	return strings.TrimSpace(req.RefreshToken), nil
}

func tokenResponse(res *service.LoginResult) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(time.Until(res.AccessExp).Round(time.Second).Seconds()),
	}
}
