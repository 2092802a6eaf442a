package loggingmw

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/logging"
)

// Config tunes RequestLogger. Skipped requests still get a request-scoped
// logger but produce no access line.
type Config struct {
	Skipper middleware.Skipper
}

// SkipProbes drops access lines for liveness probes and metric scrapes.
func SkipProbes(c echo.Context) bool {
	switch c.Path() {
	case "/health/live", "/metrics":
		return true
	}
	return false
}

func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithConfig(base, Config{})
}

// RequestLoggerWithConfig puts a request-scoped logger into the request
// context and logs one access line per request. Errors are rendered here so
// the logged status matches what the client received.
func RequestLoggerWithConfig(base *slog.Logger, cfg Config) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = middleware.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With("method", req.Method, "path", c.Path())
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			if cfg.Skipper(c) {
				return nil
			}

			res := c.Response()
			attrs := []any{
				"status", res.Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"bytes", res.Size,
				"url", req.URL.RequestURI(),
				"remote_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			}
			if err != nil {
				attrs = append(attrs, "error", err.Error())
			}
			logging.FromContext(c.Request().Context()).Log(req.Context(), levelFor(res.Status), "request completed", attrs...)
			return nil
		}
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
