package ratelimit

import (
	pkghttp "FinDash/pkg/http"

	"github.com/labstack/echo/v4"
)

// Middleware rejects a client with 429 once its bucket is empty. A nil
// limiter passes everything through.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil || l.Allow(c.RealIP()) {
				return next(c)
			}
			c.Response().Header().Set("Retry-After", "1")
			return pkghttp.AppErrorResponse(c, pkghttp.TooManyRequestsError("Too many requests"))
		}
	}
}
