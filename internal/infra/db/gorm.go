package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"evimeria/internal/domain/model"
)

// Connect はPostgresに接続して *gorm.DB を返す。
func Connect(dsn string) (*gorm.DB, error) {
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return gormDB, nil
}

// カタログと会員のテーブルを作る
func Migrate(gormDB *gorm.DB, log *zap.Logger) error {
	if err := gormDB.AutoMigrate(
		&model.Category{},
		&model.SubCategory{},
		&model.Product{},
		&model.ProductImage{},
		&model.Customer{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("schema migrated")
	return nil
}
