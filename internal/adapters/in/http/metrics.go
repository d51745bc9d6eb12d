package http

import (
	"errors"
	"net/http"
	"time"

	"helperhub/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// ObserveRequests records count and latency per route template.
func ObserveRequests() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			code := ctx.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				code = he.Code
			} else if err != nil {
				code = http.StatusInternalServerError
			}
			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			metrics.ObserveHTTP(ctx.Request().Method, route, code, time.Since(start))
			return err
		}
	}
}
