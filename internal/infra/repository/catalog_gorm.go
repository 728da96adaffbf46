package repository

import (
	"context"
	"errors"
	"strings"

	"evimeria/internal/domain/model"
	repo "evimeria/internal/repository"

	"gorm.io/gorm"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

// DI
func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

var _ repo.CatalogRepository = (*CatalogGormRepository)(nil)

// 公開商品の共通クエリ（カテゴリ名と画像を一緒に読む）
func (r *CatalogGormRepository) publishedProducts(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Product{}).
		Preload("Category").
		Preload("Images").
		Where("is_published = ?", true)
}

// 公開商品を新しい順で全件
func (r *CatalogGormRepository) ListPublishedProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := r.publishedProducts(ctx).Order("created_at desc").Order("id desc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// おすすめ商品
func (r *CatalogGormRepository) ListFeaturedProducts(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	err := r.publishedProducts(ctx).
		Where("featured = ?", true).
		Order("created_at desc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// 名前・説明の部分一致
func (r *CatalogGormRepository) SearchProducts(ctx context.Context, q string) ([]model.Product, error) {
	products := []model.Product{}
	q = strings.TrimSpace(q)
	if q == "" {
		return products, nil
	}

	like := containsPattern(q)
	err := r.publishedProducts(ctx).
		Where("name ILIKE ? OR description ILIKE ?", like, like).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

// ILIKE 用。% _ \ は文字として扱う（エスケープ文字は既定の \）
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

// slugで公開商品を1件
func (r *CatalogGormRepository) FindProductBySlug(ctx context.Context, slug string) (model.Product, error) {
	var p model.Product
	err := r.publishedProducts(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 公開カテゴリを名前順
func (r *CatalogGormRepository) ListPublishedCategories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("name asc").
		Find(&categories).Error
	if err != nil {
		return []model.Category{}, err
	}
	return categories, nil
}

func (r *CatalogGormRepository) FindCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// カテゴリ（とサブカテゴリ）で絞った公開商品
func (r *CatalogGormRepository) ListProductsByCategory(ctx context.Context, categoryID int64, subCategorySlug string) ([]model.Product, error) {
	products := []model.Product{}

	tx := r.publishedProducts(ctx).Where("category_id = ?", categoryID)

	if s := strings.TrimSpace(subCategorySlug); s != "" {
		sub := r.db.WithContext(ctx).
			Model(&model.SubCategory{}).
			Select("id").
			Where("category_id = ? AND slug = ? AND is_published = ?", categoryID, s, true)
		tx = tx.Where("subcategory_id IN (?)", sub)
	}

	if err := tx.Order("created_at desc").Find(&products).Error; err != nil {
		return []model.Product{}, err
	}
	return products, nil
}

func (r *CatalogGormRepository) ListSubCategories(ctx context.Context, categoryID int64) ([]model.SubCategory, error) {
	subs := []model.SubCategory{}
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND is_published = ?", categoryID, true).
		Order("name asc").
		Find(&subs).Error
	if err != nil {
		return []model.SubCategory{}, err
	}
	return subs, nil
}

// カテゴリテーブルを1件だけ数えて疎通を確認
func (r *CatalogGormRepository) Ping(ctx context.Context) error {
	var n int64
	return r.db.WithContext(ctx).Model(&model.Category{}).Limit(1).Count(&n).Error
}
