package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evimeria/internal/config"
	"evimeria/internal/handler"
	"evimeria/internal/infra/db"
	infraRepo "evimeria/internal/infra/repository"
	"evimeria/internal/logging"
	"evimeria/internal/server"
	"evimeria/internal/usecase"
	auth "evimeria/internal/usecase/auth_usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env は無くてもよい（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB, logger); err != nil {
		return err
	}

	//Repository（GORM実装）生成
	catalogRepo := infraRepo.NewCatalogGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)

	clock := &realClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(12)
	verifier := auth.NewBcryptPasswordVerifier()
	issuer := auth.NewJWTIssuer(cfg.JWTSecret, 15*time.Minute)

	//Usecase生成
	catalogUC := usecase.NewCatalogUsecase(catalogRepo, logger)
	registerUC := auth.NewRegisterUsecase(customerRepo, hasher, issuer, clock)
	loginUC := auth.NewLoginUsecase(customerRepo, verifier, issuer, clock)
	profileUC := auth.NewProfileUsecase(customerRepo)

	//Handler生成
	e := server.New(server.Options{
		APIPrefix: cfg.APIPrefix,
		JWTSecret: cfg.JWTSecret,
		Catalog:   handler.NewCatalogHandler(catalogUC),
		Auth:      handler.NewAuthHandler(registerUC, loginUC, profileUC),
		Customers: customerRepo,
		Logger:    logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Server起動
	logger.Info("catalog api listening", zap.String("addr", cfg.Addr()), zap.String("prefix", cfg.APIPrefix))
	return server.Start(ctx, e, cfg.Addr())
}
