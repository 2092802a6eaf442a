package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
)

const missingProductFields = "Please provide all required fields (title, description, price, category, stock)"

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	items, err := h.Svc.List(ctx, c.QueryParam("category"))
	if err != nil {
		return productError(c, err)
	}

	return c.JSON(http.StatusOK, transport.ProductListResponse{Success: true, Count: len(items), Data: items})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	product, err := h.Svc.Get(ctx, c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", productStatus(err), "error", err)
		return productError(c, err)
	}

	return c.JSON(http.StatusOK, transport.ProductResponse{Success: true, Data: product})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}

	product, err := h.Svc.Create(ctx, req.Input())
	if err != nil {
		return productError(c, err)
	}

	l.Info("create_product_success", "product_id", product.ID)
	return c.JSON(http.StatusCreated, transport.ProductResponse{Success: true, Data: product})
}

func (h *CatalogHTTP) SeedProducts(c echo.Context) error {
	ctx := c.Request().Context()

	n, err := h.Svc.BulkReplace(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{
			Error:   "Error seeding products",
			Details: err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, transport.SeedResponse{
		Success: true,
		Message: "Products seeded successfully",
		Count:   n,
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, size := util.ParsePage(c.QueryParam("page"), c.QueryParam("size"))
	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		return productError(c, err)
	}

	return c.JSON(http.StatusOK, transport.SearchResponse{Success: true, Total: total, Count: len(items), Data: items})
}

func productStatus(err error) int {
	return statusOf(apperr.KindOf(err))
}

func productError(c echo.Context, err error) error {
	body := transport.ErrorResponse{Error: messageOf(err)}

	switch {
	case errors.Is(err, apperr.ErrMalformedID):
		body.Error = "Invalid product ID format"
	case errors.Is(err, apperr.ErrMissingFields):
		body.Error = missingProductFields
		if d := detailsOf(err); len(d) > 0 {
			body.Details = d
		}
	case apperr.KindOf(err) == apperr.KindValidation:
		if d := detailsOf(err); len(d) > 0 {
			body.Details = d
		}
	}
	return c.JSON(productStatus(err), body)
}
