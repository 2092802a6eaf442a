package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const userKey = "user"

type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth resolves the bearer token to a user and stores it on the
// context. Failures are returned as-is for the central error handler.
func RequireAuth(resolver UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			token := tokens.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			user, err := resolver.ResolveUser(ctx, token)
			if err != nil {
				logging.FromContext(ctx).Warn("auth_error", "status", 401, "error", err)
				return err
			}

			c.Set(userKey, user)
			c.SetRequest(c.Request().WithContext(logging.WithAttrs(ctx, "user_id", user.ID)))
			return next(c)
		}
	}
}

// UserFromContext returns the user set by RequireAuth.
func UserFromContext(c echo.Context) (*models.User, bool) {
	u, ok := c.Get(userKey).(*models.User)
	return u, ok && u != nil
}
