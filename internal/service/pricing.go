package service

import (
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/shopspring/decimal"
)

// PricedLine 單價一律來自 catalog, 不採用呼叫端傳入的價格
type PricedLine struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type PriceQuote struct {
	ItemsTotal   decimal.Decimal `json:"itemsTotal"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
	Total        decimal.Decimal `json:"total"`
}

// Quote 商品小計達 FreeShippingThreshold (含) 免運, 否則收 FlatShippingFee
func Quote(lines []PricedLine) PriceQuote {
	itemsTotal := decimal.Zero
	for _, l := range lines {
		itemsTotal = itemsTotal.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	shipping := constants.FlatShippingFee
	if itemsTotal.GreaterThanOrEqual(constants.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	return PriceQuote{
		ItemsTotal:   itemsTotal,
		ShippingCost: shipping,
		Total:        itemsTotal.Add(shipping),
	}
}
