package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CORSは全レスポンスにヘッダを付け、OPTIONSは200・空ボディで返す。
// ルーティング前に動かすため e.Pre で登録する。
func CORS() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

			// preflight
			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusOK)
			}
			return next(c)
		}
	}
}
