package model

import (
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order 建立後只有 Status 會變動, 運送資料與單價都是下單當下的快照
type Order struct {
	ID                string                `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID            string                `gorm:"type:varchar(36);not null;index" json:"userId"`
	Total             decimal.Decimal       `gorm:"type:decimal(10,2);not null" json:"total"`
	Status            constants.OrderStatus `gorm:"type:varchar(20);not null" json:"status"`
	ShippingFirstName string                `gorm:"type:varchar(100);not null" json:"shippingFirstName"`
	ShippingLastName  string                `gorm:"type:varchar(100);not null" json:"shippingLastName"`
	ShippingAddress   string                `gorm:"type:varchar(255);not null" json:"shippingAddress"`
	ShippingCity      string                `gorm:"type:varchar(100);not null" json:"shippingCity"`
	ShippingZipCode   string                `gorm:"type:varchar(20);not null" json:"shippingZipCode"`
	ShippingCountry   string                `gorm:"type:varchar(100);not null" json:"shippingCountry"`
	ShippingPhone     string                `gorm:"type:varchar(30);not null" json:"shippingPhone"`
	Items             []OrderItem           `gorm:"foreignKey:OrderID" json:"items"`
	BaseModel
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

type OrderItem struct {
	ID        string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"orderId"`
	ProductID string          `gorm:"type:varchar(36);not null;index" json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Size      string          `gorm:"type:varchar(20);not null" json:"size"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// LineTotal 單價乘數量
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
