package dto

import (
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

type CreateAddressDTO struct {
	FirstName string `json:"firstName" validate:"notblank,max=100"`
	LastName  string `json:"lastName" validate:"notblank,max=100"`
	Address   string `json:"address" validate:"notblank,max=255"`
	City      string `json:"city" validate:"notblank,max=100"`
	ZipCode   string `json:"zipCode" validate:"notblank,max=20"`
	Country   string `json:"country" validate:"max=100"`
	Phone     string `json:"phone" validate:"notblank,max=30"`
	IsDefault bool   `json:"isDefault"`
}

func (d CreateAddressDTO) ToRequest() service.CreateAddressRequest {
	return service.CreateAddressRequest{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Address:   d.Address,
		City:      d.City,
		ZipCode:   d.ZipCode,
		Country:   d.Country,
		Phone:     d.Phone,
		IsDefault: d.IsDefault,
	}
}

// UpdateAddressDTO 未帶的欄位維持原值
type UpdateAddressDTO struct {
	FirstName *string `json:"firstName" validate:"omitnil,max=100"`
	LastName  *string `json:"lastName" validate:"omitnil,max=100"`
	Address   *string `json:"address" validate:"omitnil,max=255"`
	City      *string `json:"city" validate:"omitnil,max=100"`
	ZipCode   *string `json:"zipCode" validate:"omitnil,max=20"`
	Country   *string `json:"country" validate:"omitnil,max=100"`
	Phone     *string `json:"phone" validate:"omitnil,max=30"`
	IsDefault *bool   `json:"isDefault"`
}

func (d UpdateAddressDTO) ToRequest() service.UpdateAddressRequest {
	return service.UpdateAddressRequest{
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Address:   d.Address,
		City:      d.City,
		ZipCode:   d.ZipCode,
		Country:   d.Country,
		Phone:     d.Phone,
		IsDefault: d.IsDefault,
	}
}

type AddressesResponse struct {
	Addresses []model.Address `json:"addresses"`
}

type AddressResponse struct {
	Address *model.Address `json:"address"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
