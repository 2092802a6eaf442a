// Package httpserver wires the storefront HTTP API onto echo.
package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/metrics"
	authmw "github.com/Skotchmaster/storefront/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
)

const bodyLimit = "1M"

type Deps struct {
	Auth    *AuthHTTP
	Catalog *CatalogHTTP
	Cart    *CartHTTP
	Health  *HealthHTTP
	Metrics *metrics.Metrics
}

// New builds an echo instance with the full middleware chain and routes.
func New(logger *slog.Logger, d *Deps, development bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(development)

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(loggingmw.RequestLoggerWithConfig(logger, loggingmw.Config{Skipper: loggingmw.SkipProbes}))
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	products := e.Group("/products")
	products.GET("", d.Catalog.GetProducts)
	products.GET("/search", d.Catalog.SearchProducts)
	products.POST("/seed", d.Catalog.SeedProducts)
	products.GET("/:id", d.Catalog.GetProduct)
	products.POST("", d.Catalog.CreateProduct)

	cart := e.Group("/cart", authmw.RequireAuth(d.Auth.Svc))
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.PUT("/:itemId", d.Cart.UpdateCartItem)
	cart.DELETE("/:itemId", d.Cart.RemoveCartItem)
}
