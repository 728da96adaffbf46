package model

import (
	"strings"
	"time"
)

// カテゴリ（公開フラグ付き）
type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:varchar(1000)" json:"image"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "products_category" }

// サブカテゴリ（category_id + slug で一意）
type SubCategory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  int64     `gorm:"not null;uniqueIndex:idx_subcategory_category_slug" json:"category_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_subcategory_category_slug" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (SubCategory) TableName() string { return "products_subcategory" }

// 画像が無いカテゴリ用の代替画像
var fallbackCategoryImages = map[string]string{
	"hommes":     "https://images.unsplash.com/photo-1620012253295-c15cc3e65df4",
	"femmes":     "https://images.unsplash.com/photo-1581044777550-4cfa60707c03",
	"chaussures": "https://images.unsplash.com/photo-1542291026-7eec264c27ff",
	"montres":    "https://images.unsplash.com/photo-1523170335258-f5ed11844a49",
	"casquettes": "https://images.unsplash.com/photo-1521369909029-2afed882baee",
	"baskets":    "https://images.unsplash.com/photo-1552346154-21d32810aba3",
}

const defaultCategoryImage = "https://images.unsplash.com/photo-1581044777550-4cfa60707c03"

// 表示用の画像URL（image → slug別の代替 → default）
func (c Category) DisplayImage() string {
	if c.Image != "" && !strings.Contains(c.Image, "null") {
		return c.Image
	}
	if img, ok := fallbackCategoryImages[strings.ToLower(c.Slug)]; ok {
		return img
	}
	return defaultCategoryImage
}
