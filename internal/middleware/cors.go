package middleware

import (
	"github.com/labstack/echo/v4"
)

// CORS header values attached to every response.
const (
	AllowOrigin  = "*"
	AllowHeaders = "Origin, X-Requested-With, Content-Type, Accept"
	AllowMethods = "GET,HEAD,OPTIONS"
)

// CORS returns an Echo middleware that stamps the CORS headers onto every
// response. The headers are set from a Response.Before hook, i.e. right
// before the status line goes out, so they apply on every exit path
// (handler success, error handler, recovered panic) and overwrite whatever
// the handler mirrored from upstream.
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			res.Before(func() {
				h := res.Header()
				h.Set(echo.HeaderAccessControlAllowOrigin, AllowOrigin)
				h.Set(echo.HeaderAccessControlAllowHeaders, AllowHeaders)
				h.Set(echo.HeaderAccessControlAllowMethods, AllowMethods)
			})
			return next(c)
		}
	}
}
