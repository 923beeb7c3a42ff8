package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Category struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug        string `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Image       string `gorm:"type:varchar(255)" json:"image"`
	Description string `gorm:"type:text" json:"description"`
	BaseModel
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// Product 上架後由 seed / 後台維護, storefront 只讀
type Product struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug        string          `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug"`
	Name        string          `gorm:"type:varchar(150);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Images      []string        `gorm:"type:jsonb;serializer:json" json:"images"`
	Sizes       []string        `gorm:"type:jsonb;serializer:json" json:"sizes"`
	Colors      []string        `gorm:"type:jsonb;serializer:json" json:"colors"`
	Featured    bool            `gorm:"not null;default:false;index" json:"featured"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	CategoryID  string          `gorm:"type:varchar(36);not null;index" json:"categoryId"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	BaseModel
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PrimaryImage 第一張圖為主圖
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
