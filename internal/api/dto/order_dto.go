package dto

import (
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/shopspring/decimal"
)

// PlaceOrderDTO 只解析結構, 欄位檢查依固定順序在 service 進行
// 請求中多出的欄位 (例如 price) 直接忽略
type PlaceOrderDTO struct {
	Items           []OrderItemDTO      `json:"items"`
	ShippingAddress *ShippingAddressDTO `json:"shippingAddress"`
}

type OrderItemDTO struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type ShippingAddressDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

func (d PlaceOrderDTO) ToRequest() service.PlaceOrderRequest {
	req := service.PlaceOrderRequest{
		Items: make([]service.OrderItemRequest, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		req.Items = append(req.Items, service.OrderItemRequest{
			ProductID: it.ProductID,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}
	if d.ShippingAddress != nil {
		req.ShippingAddress = &service.ShippingAddress{
			FirstName: d.ShippingAddress.FirstName,
			LastName:  d.ShippingAddress.LastName,
			Address:   d.ShippingAddress.Address,
			City:      d.ShippingAddress.City,
			ZipCode:   d.ShippingAddress.ZipCode,
			Country:   d.ShippingAddress.Country,
			Phone:     d.ShippingAddress.Phone,
		}
	}
	return req
}

type PlaceOrderResponse struct {
	Message string          `json:"message"`
	OrderID string          `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
}

type OrdersResponse struct {
	Orders []model.Order `json:"orders"`
}
