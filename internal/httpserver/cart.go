package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) user(c echo.Context) (*models.User, error) {
	u, ok := authmw.UserFromContext(c)
	if !ok {
		return nil, apperr.ErrTokenMissing
	}
	return u, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	u, err := h.user(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.GetCart(ctx, u.ID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, transport.NewCartViewResponse(view))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	u, err := h.user(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid request body"})
	}

	cart, created, err := h.Svc.AddItem(ctx, u.ID, req.ProductID, req.Quantity)
	if err != nil {
		return cartError(c, err)
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	l.Info("item added to cart", "status", status, "product_id", req.ProductID)
	return c.JSON(status, transport.NewCartResponse(cart))
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	u, err := h.user(c)
	if err != nil {
		return err
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid request body"})
	}

	cart, err := h.Svc.UpdateItem(ctx, u.ID, c.Param("itemId"), req.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()

	u, err := h.user(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.RemoveItem(ctx, u.ID, c.Param("itemId"))
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(http.StatusOK, transport.NewCartResponse(cart))
}

func cartError(c echo.Context, err error) error {
	status := statusOf(apperr.KindOf(err))
	if status == http.StatusBadGateway || status == http.StatusConflict || status == http.StatusUnauthorized {
		status = http.StatusInternalServerError
	}
	msg := messageOf(err)
	if status == http.StatusInternalServerError {
		msg = serverError
	}
	return c.JSON(status, transport.MessageResponse{Message: msg})
}
