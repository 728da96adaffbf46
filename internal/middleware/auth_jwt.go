package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxCustomerIDKey   = "customer_id"   // int64
	CtxTokenVersionKey = "token_version" // int
	CtxTokenIDKey      = "token_id"      // string (jti)
)

var errInvalidClaims = errors.New("invalid access token claims")

// アクセストークンから取り出した値
type accessClaims struct {
	CustomerID   int64
	TokenVersion int
	TokenID      string
}

// AuthJWT は Bearer のアクセストークンを検証して会員IDと tv を ctx に載せる。
// HS256 以外・exp なし・sub/tv が読めないものは 401。
func AuthJWT(secret string) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithJSONNumber(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request())
			if !ok {
				return unauthorized(c)
			}

			claims := jwt.MapClaims{}
			token, err := parser.ParseWithClaims(raw, claims, keyFunc)
			if err != nil || !token.Valid {
				return unauthorized(c)
			}

			ac, err := readAccessClaims(claims)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(CtxCustomerIDKey, ac.CustomerID)
			c.Set(CtxTokenVersionKey, ac.TokenVersion)
			c.Set(CtxTokenIDKey, ac.TokenID)
			return next(c)
		}
	}
}

// "Bearer <token>" の token 部分
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func readAccessClaims(claims jwt.MapClaims) (accessClaims, error) {
	// exp のないトークンは受け付けない
	if _, ok := claims["exp"]; !ok {
		return accessClaims{}, errInvalidClaims
	}

	id, err := claimInt(claims["sub"], 64)
	if err != nil || id <= 0 {
		return accessClaims{}, errInvalidClaims
	}
	tv, err := claimInt(claims["tv"], 32)
	if err != nil || tv < 0 {
		return accessClaims{}, errInvalidClaims
	}

	jti, _ := claims["jti"].(string)
	return accessClaims{CustomerID: id, TokenVersion: int(tv), TokenID: jti}, nil
}

// sub は文字列、tv は数値で来るがどちらも許す
func claimInt(v interface{}, bitSize int) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		return strconv.ParseInt(t.String(), 10, bitSize)
	case string:
		return strconv.ParseInt(t, 10, bitSize)
	default:
		return 0, errInvalidClaims
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}
