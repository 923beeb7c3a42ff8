package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderConfirmation 寄送訂單確認信需要的資料, 也是 order.placed 事件的內容
type OrderConfirmation struct {
	OrderID       string                  `json:"orderId"`
	Email         string                  `json:"email"`
	RecipientName string                  `json:"recipientName"`
	Items         []OrderConfirmationItem `json:"items"`
	ItemsTotal    decimal.Decimal         `json:"itemsTotal"`
	ShippingCost  decimal.Decimal         `json:"shippingCost"`
	Total         decimal.Decimal         `json:"total"`
	Shipping      ShippingAddress         `json:"shipping"`
	PlacedAt      time.Time               `json:"placedAt"`
}

type OrderConfirmationItem struct {
	Name     string          `json:"name"`
	Size     string          `json:"size"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

func (i OrderConfirmationItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderNotifier 下單成功後的通知, 失敗只記 log 不影響訂單
type OrderNotifier interface {
	NotifyOrderPlaced(ctx context.Context, confirmation OrderConfirmation) error
}

// NoopNotifier 未設定寄信帳號時使用
type NoopNotifier struct{}

func (NoopNotifier) NotifyOrderPlaced(ctx context.Context, confirmation OrderConfirmation) error {
	return nil
}
