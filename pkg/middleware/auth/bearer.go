package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

const principalKey = "principal"

type Verifier interface {
	Verify(ctx context.Context, accessToken string) (auth.Principal, error)
}

type AuthMiddleware struct {
	Verifier Verifier
}

func NewAuthMiddleware(v Verifier) *AuthMiddleware {
	return &AuthMiddleware{Verifier: v}
}

// RequireAuth verifies the bearer token and stores the principal on the context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
		}

		ctx := c.Request().Context()
		p, err := m.Verifier.Verify(ctx, token)
		if err != nil {
			logging.FromContext(ctx).Warn("auth_failed", "status", 401, "reason", err.Error())
			return err
		}

		c.Set(principalKey, p)
		l := logging.FromContext(ctx).With("user_id", p.UserID, "role", p.Role)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
		return next(c)
	}
}

// RequireRole must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(min string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			if err := auth.Require(p, min); err != nil {
				logging.FromContext(c.Request().Context()).Warn("access_denied", "status", 403, "required_role", min)
				return echo.NewHTTPError(http.StatusForbidden, min+" access required")
			}
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
