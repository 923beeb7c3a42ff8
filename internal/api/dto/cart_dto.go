package dto

import "github.com/RoyceAzure/lab/storefront/internal/service"

type AddCartItemDTO struct {
	ProductID string `json:"productId" validate:"notblank"`
	Size      string `json:"size" validate:"notblank,max=20"`
	Color     string `json:"color" validate:"max=50"`
	Quantity  int    `json:"quantity" validate:"gte=0,lte=99"`
}

func (d AddCartItemDTO) ToRequest() service.AddCartItemRequest {
	return service.AddCartItemRequest{
		ProductID: d.ProductID,
		Size:      d.Size,
		Color:     d.Color,
		Quantity:  d.Quantity,
	}
}

// UpdateCartItemDTO quantity <= 0 代表移除
type UpdateCartItemDTO struct {
	ProductID string `json:"productId" validate:"notblank"`
	Size      string `json:"size" validate:"notblank,max=20"`
	Quantity  int    `json:"quantity" validate:"lte=99"`
}

func (d UpdateCartItemDTO) ToRequest() service.UpdateCartItemRequest {
	return service.UpdateCartItemRequest{
		ProductID: d.ProductID,
		Size:      d.Size,
		Quantity:  d.Quantity,
	}
}
