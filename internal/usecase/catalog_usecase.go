package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"evimeria/internal/domain/model"
	repo "evimeria/internal/repository"

	"go.uber.org/zap"
)

const (
	APIMessage = "🚀 API EVIMERIA"
	APIVersion = "1.0.0"
)

// 公開カタログの業務ロジック（読み取りのみ）
type CatalogUsecase struct {
	catalogRepo repo.CatalogRepository
	logger      *zap.Logger
	now         func() time.Time
}

// DI
func NewCatalogUsecase(catalogRepo repo.CatalogRepository, logger *zap.Logger) *CatalogUsecase {
	return &CatalogUsecase{
		catalogRepo: catalogRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// 一覧レスポンス { count, results }
type ListOutput[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func newListOutput[T any](items []T) ListOutput[T] {
	if items == nil {
		items = []T{}
	}
	return ListOutput[T]{Count: len(items), Results: items}
}

// GET / のレスポンス
type IndexOutput struct {
	Message   string   `json:"message"`
	Version   string   `json:"version"`
	Timestamp string   `json:"timestamp"`
	Endpoints []string `json:"endpoints"`
}

// GET /health のレスポンス
type HealthOutput struct {
	Status    string  `json:"status"`
	Database  string  `json:"database"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
}

func (u *CatalogUsecase) timestamp() string {
	return u.now().UTC().Format(time.RFC3339Nano)
}

func (u *CatalogUsecase) Index() IndexOutput {
	return IndexOutput{
		Message:   APIMessage,
		Version:   APIVersion,
		Timestamp: u.timestamp(),
		Endpoints: []string{
			"/api/products",
			"/api/categories",
			"/api/health",
		},
	}
}

// DBに繋がらなくても200で返す（database欄で判断する）
func (u *CatalogUsecase) Health(ctx context.Context) HealthOutput {
	out := HealthOutput{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: u.timestamp(),
	}
	if err := u.catalogRepo.Ping(ctx); err != nil {
		u.logger.Warn("database ping failed", zap.Error(err))
		msg := err.Error()
		out.Database = "disconnected"
		out.Error = &msg
	}
	return out
}

func (u *CatalogUsecase) ListProducts(ctx context.Context) (ListOutput[model.Product], error) {
	items, err := u.catalogRepo.ListPublishedProducts(ctx)
	if err != nil {
		return ListOutput[model.Product]{}, u.dbError("list products", err)
	}
	u.logger.Debug("products listed", zap.Int("count", len(items)))
	return newListOutput(items), nil
}

func (u *CatalogUsecase) ListFeaturedProducts(ctx context.Context) (ListOutput[model.Product], error) {
	items, err := u.catalogRepo.ListFeaturedProducts(ctx)
	if err != nil {
		return ListOutput[model.Product]{}, u.dbError("list featured products", err)
	}
	return newListOutput(items), nil
}

// q は空なら空の一覧、100文字まで
func (u *CatalogUsecase) SearchProducts(ctx context.Context, q string) (ListOutput[model.Product], error) {
	q = strings.TrimSpace(q)
	if len(q) > 100 {
		return ListOutput[model.Product]{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if q == "" {
		return newListOutput([]model.Product{}), nil
	}

	items, err := u.catalogRepo.SearchProducts(ctx, q)
	if err != nil {
		return ListOutput[model.Product]{}, u.dbError("search products", err)
	}
	return newListOutput(items), nil
}

func (u *CatalogUsecase) GetProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}

	p, err := u.catalogRepo.FindProductBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "Produit non trouvé")
	}
	if err != nil {
		return model.Product{}, u.dbError("find product", err)
	}
	return p, nil
}

func (u *CatalogUsecase) ListCategories(ctx context.Context) (ListOutput[model.Category], error) {
	items, err := u.catalogRepo.ListPublishedCategories(ctx)
	if err != nil {
		return ListOutput[model.Category]{}, u.dbError("list categories", err)
	}
	u.logger.Debug("categories listed", zap.Int("count", len(items)))
	return newListOutput(items), nil
}

func (u *CatalogUsecase) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	c, err := u.catalogRepo.FindCategoryBySlug(ctx, strings.TrimSpace(slug))
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "Catégorie non trouvée")
	}
	if err != nil {
		return model.Category{}, u.dbError("find category", err)
	}
	return c, nil
}

func (u *CatalogUsecase) ListProductsByCategory(ctx context.Context, categorySlug string, subCategorySlug string) (ListOutput[model.Product], error) {
	c, err := u.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return ListOutput[model.Product]{}, err
	}

	items, err := u.catalogRepo.ListProductsByCategory(ctx, c.ID, subCategorySlug)
	if err != nil {
		return ListOutput[model.Product]{}, u.dbError("list products by category", err)
	}
	return newListOutput(items), nil
}

func (u *CatalogUsecase) ListSubCategories(ctx context.Context, categorySlug string) (ListOutput[model.SubCategory], error) {
	c, err := u.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return ListOutput[model.SubCategory]{}, err
	}

	items, err := u.catalogRepo.ListSubCategories(ctx, c.ID)
	if err != nil {
		return ListOutput[model.SubCategory]{}, u.dbError("list subcategories", err)
	}
	return newListOutput(items), nil
}

func (u *CatalogUsecase) dbError(op string, err error) error {
	u.logger.Error("catalog query failed", zap.String("op", op), zap.Error(err))
	return NewDBError(err)
}
