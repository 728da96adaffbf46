package handler

import (
	"net/http"

	"evimeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// DBエラー（500）
type DBErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Code    string `json:"code"`
}

// ルートが無い（404）
type RouteNotFoundResponse struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Method string `json:"method"`
}

// 想定外のエラー（500）
type InternalErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	routeNotFoundMessage = "Route non trouvée"
	internalErrorMessage = "Erreur serveur interne"
)

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status == http.StatusInternalServerError && (he.Details != "" || he.Code != "") {
			return c.JSON(he.Status, DBErrorResponse{Error: he.Message, Details: he.Details, Code: he.Code})
		}
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return WriteInternalError(c, err)
}

// 上位（server のエラーハンドラ）からも使う
func WriteUsecaseError(c echo.Context, err error) error {
	return writeError(c, err)
}

// 一致するルート・メソッドが無いとき
func WriteRouteNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, RouteNotFoundResponse{
		Error:  routeNotFoundMessage,
		Path:   c.Request().URL.Path,
		Method: c.Request().Method,
	})
}

func WriteInternalError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, InternalErrorResponse{
		Error:   internalErrorMessage,
		Message: err.Error(),
	})
}
