package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"evimeria/internal/client"
	"evimeria/internal/config"
	"evimeria/internal/infra/db"
	infraRepo "evimeria/internal/infra/repository"
	"evimeria/internal/logging"
	"evimeria/internal/money"
	"evimeria/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// コマンド1回分の部品
type shopApp struct {
	cfg    config.Shop
	logger *zap.Logger
	store  *sql.DB

	browse   *usecase.BrowseUsecase
	catalog  *client.CatalogClient
	cart     *usecase.CartUsecase
	checkout *usecase.CheckoutUsecase
}

func openShopApp(ctx context.Context, cfg config.Shop, verbose bool) (*shopApp, error) {
	if err := money.Check(cfg.Currency); err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New("dev", level)
	if err != nil {
		return nil, err
	}

	catalog, err := client.NewCatalogClient(cfg.APIURL, &http.Client{Timeout: 15 * time.Second}, logger)
	if err != nil {
		return nil, err
	}

	store, err := db.OpenSQLite(cfg.StorePath())
	if err != nil {
		return nil, err
	}

	cart := usecase.NewCartUsecase(ctx, infraRepo.NewSQLiteKeyValueStore(store), logger)

	return &shopApp{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		browse:   usecase.NewBrowseUsecase(catalog),
		catalog:  catalog,
		cart:     cart,
		checkout: usecase.NewCheckoutUsecase(cart, &uuidGenerator{}, &realClock{}, logger),
	}, nil
}

func (a *shopApp) Close() error {
	_ = a.logger.Sync()
	return a.store.Close()
}
