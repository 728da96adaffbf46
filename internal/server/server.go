package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"evimeria/internal/handler"
	"evimeria/internal/middleware"
	"evimeria/internal/repository"
	"evimeria/internal/usecase"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// サーバーの組み立てに必要なもの
type Options struct {
	APIPrefix string
	JWTSecret string

	Catalog   *handler.CatalogHandler
	Auth      *handler.AuthHandler
	Customers repository.CustomerRepository

	Logger *zap.Logger
}

// New はルートとミドルウェアを載せた echo を返す。
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(opts.Logger)

	// ルーティング前
	e.Pre(middleware.StripPrefix(opts.APIPrefix))
	// /products/ と /products を同じルートに
	e.Pre(echomw.RemoveTrailingSlash())
	e.Pre(middleware.CORS())

	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.Recover())

	RegisterRoutes(e, opts)
	return e
}

func RegisterRoutes(e *echo.Echo, opts Options) {
	if opts.Catalog != nil {
		opts.Catalog.RegisterRoutes(e)
	}
	if opts.Auth != nil {
		opts.Auth.RegisterRoutes(e, opts.JWTSecret, opts.Customers)
	}
}

// 404/405 は同じ「ルートなし」、usecase のエラーはそのまま、残りは500
func errorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var werr error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &he) && (he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed):
			werr = handler.WriteRouteNotFound(c)
		case errors.As(err, &he) && he.Code < http.StatusInternalServerError:
			werr = c.JSON(he.Code, handler.ErrorResponse{Error: http.StatusText(he.Code)})
		default:
			if _, ok := usecase.AsHTTPError(err); ok {
				werr = handler.WriteUsecaseError(c, err)
				break
			}
			logger.Error("unhandled error", zap.String("path", c.Request().URL.Path), zap.Error(err))
			werr = handler.WriteInternalError(c, err)
		}
		if werr != nil {
			logger.Warn("failed to write error response", zap.Error(werr))
		}
	}
}

// Start は ctx が終わるまで待ち受け、終わったら graceful shutdown する。
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
