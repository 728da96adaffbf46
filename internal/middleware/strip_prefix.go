package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// StripPrefix は /.netlify/functions/api のような前置きを外してからルーティングさせる。
func StripPrefix(prefix string) echo.MiddlewareFunc {
	prefix = strings.TrimRight(prefix, "/")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if prefix == "" {
			return next
		}
		return func(c echo.Context) error {
			req := c.Request()
			p := strings.TrimPrefix(req.URL.Path, prefix)
			if p != req.URL.Path && (p == "" || strings.HasPrefix(p, "/")) {
				if p == "" {
					p = "/"
				}
				req.URL.Path = p
				req.URL.RawPath = ""
			}
			return next(c)
		}
	}
}
