package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID    int64           `gorm:"not null;index" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubCategoryID *int64          `gorm:"column:subcategory_id;index" json:"subcategory_id"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	Slug          string          `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Stock         int64           `gorm:"not null;default:0" json:"stock"`
	Available     bool            `gorm:"not null;default:true" json:"available"`
	Featured      bool            `gorm:"not null;default:false" json:"featured"`
	IsPublished   bool            `gorm:"not null;default:false;index" json:"is_published"`
	Images        []ProductImage  `gorm:"foreignKey:ProductID" json:"images"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "products_product" }

type ProductImage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Image     string    `gorm:"type:varchar(500);not null" json:"image"`
	IsMain    bool      `gorm:"not null;default:false" json:"is_main"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (ProductImage) TableName() string { return "products_productimage" }

// メイン画像（is_main → 先頭 → 空）
func (p Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.Image
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].Image
	}
	return ""
}

// カートに入れる明細を作る
func (p Product) ToCartItem(quantity int) CartItem {
	return CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.MainImage(),
		Quantity: quantity,
		Slug:     p.Slug,
	}
}
