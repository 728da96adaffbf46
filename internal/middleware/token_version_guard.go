package middleware

import (
	"evimeria/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTのtvとDBのtoken_versionが一致するか確認。停止会員も弾く。
func TokenVersionGuard(customers repository.CustomerRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			customerID, ok := c.Get(CtxCustomerIDKey).(int64)
			if !ok || customerID <= 0 {
				return unauthorized(c)
			}

			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok || tv < 0 {
				return unauthorized(c)
			}

			//DBから最新の会員を取得する
			customer, err := customers.FindByID(c.Request().Context(), customerID)
			if err != nil || customer == nil || !customer.IsActive {
				return unauthorized(c)
			}

			//token_version が一致しなければ失効扱い（401）
			if customer.TokenVersion != tv {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}
