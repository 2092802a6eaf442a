package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid user data"})
	}

	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: messageOf(err)})
		case apperr.KindOf(err) == apperr.KindValidation:
			return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: serverError})
		}
	}

	return c.JSON(http.StatusCreated, transport.NewAuthResponse(res))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid request body"})
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, transport.MessageResponse{Message: messageOf(err)})
		}
		return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: serverError})
	}

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.NewAuthResponse(res))
}
