package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"evimeria/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidSort = errors.New("invalid sort")

// 画面側が使うカタログの読み取り（client.CatalogClient が実装）
// 一覧系は失敗しても空を返し、GetProductBySlug だけがエラーを返す。
type CatalogReader interface {
	ListProducts(ctx context.Context) []model.Product
	ListFeaturedProducts(ctx context.Context) []model.Product
	SearchProducts(ctx context.Context, q string) []model.Product
	GetProductBySlug(ctx context.Context, slug string) (model.Product, error)
	ListCategories(ctx context.Context) []model.Category
	ListProductsByCategory(ctx context.Context, categorySlug string, subCategorySlug string) []model.Product
	ListSubCategories(ctx context.Context, categorySlug string) []model.SubCategory
}

// ストアフロントの閲覧ロジック
type BrowseUsecase struct {
	catalog CatalogReader
}

// DI
func NewBrowseUsecase(catalog CatalogReader) *BrowseUsecase {
	return &BrowseUsecase{catalog: catalog}
}

type HomeOutput struct {
	Categories []model.Category
	Featured   []model.Product
}

// Home はカテゴリとおすすめ商品を並行で取得する（順序の保証なし）。
func (u *BrowseUsecase) Home(ctx context.Context) HomeOutput {
	var out HomeOutput

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Categories = u.catalog.ListCategories(gctx)
		return nil
	})
	g.Go(func() error {
		out.Featured = u.catalog.ListFeaturedProducts(gctx)
		return nil
	})
	// 一覧系はエラーを返さない
	_ = g.Wait()

	return out
}

// 取得済みの商品を絞り込む条件
type ProductFilter struct {
	Query         string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	OnlyAvailable bool
	// "" | new | price_asc | price_desc | name
	Sort string
}

// FilterProducts は取得済みの一覧を絞り込み・並べ替えする（元の slice は変えない）。
func (u *BrowseUsecase) FilterProducts(products []model.Product, f ProductFilter) ([]model.Product, error) {
	switch f.Sort {
	case "", "new", "price_asc", "price_desc", "name":
	default:
		return nil, ErrInvalidSort
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.OnlyAvailable && (!p.Available || p.Stock <= 0) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case "price_asc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case "price_desc":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case "name":
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	case "new":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

// Paginate は1始まりのページをコピーして返す。範囲外は空。
func (u *BrowseUsecase) Paginate(products []model.Product, page int, perPage int) ([]model.Product, int) {
	if perPage < 1 {
		perPage = 12
	}
	totalPages := (len(products) + perPage - 1) / perPage
	if page < 1 || page > totalPages {
		return []model.Product{}, totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	out := make([]model.Product, end-start)
	copy(out, products[start:end])
	return out, totalPages
}
