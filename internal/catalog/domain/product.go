package domain

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Manufacturer 生产商
type Manufacturer struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(255);not null"`
}

func (Manufacturer) TableName() string { return "manufacturers" }

// Category 商品分类，slug 唯一且作为 URL 标识
type Category struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(255);not null"`
	Slug string `gorm:"column:slug;type:varchar(200);uniqueIndex;not null"`
}

func (Category) TableName() string { return "categories" }

// Product 商品
type Product struct {
	gorm.Model
	Name        string          `gorm:"column:name;type:varchar(255);index;not null"`
	Slug        string          `gorm:"column:slug;type:varchar(200);uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null"`
	Width       int             `gorm:"column:width"`
	Height      int             `gorm:"column:height"`
	Description string          `gorm:"column:description;type:varchar(1000)"`
	Image       string          `gorm:"column:image;type:varchar(500)"`
	CategoryID  uint            `gorm:"column:category_id;index;not null"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }

// ViewCount 商品浏览记录，(product_id, user_id) 唯一，重复浏览不产生新记录
type ViewCount struct {
	gorm.Model
	ProductID uint   `gorm:"column:product_id;uniqueIndex:idx_product_user;not null"`
	UserID    string `gorm:"column:user_id;type:varchar(36);uniqueIndex:idx_product_user;not null"`
}

func (ViewCount) TableName() string { return "view_counts" }
