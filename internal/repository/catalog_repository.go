package repository

import (
	"context"
	"errors"

	"evimeria/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 公開カタログの読み取りだけを約束（is_published=true のみ）
type CatalogRepository interface {
	ListPublishedProducts(ctx context.Context) ([]model.Product, error)
	ListFeaturedProducts(ctx context.Context) ([]model.Product, error)
	SearchProducts(ctx context.Context, q string) ([]model.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (model.Product, error)

	ListPublishedCategories(ctx context.Context) ([]model.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (model.Category, error)
	// subCategorySlug が空ならカテゴリ全体
	ListProductsByCategory(ctx context.Context, categoryID int64, subCategorySlug string) ([]model.Product, error)
	ListSubCategories(ctx context.Context, categoryID int64) ([]model.SubCategory, error)

	// DB疎通確認
	Ping(ctx context.Context) error
}
