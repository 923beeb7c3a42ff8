package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type AddressHandler struct {
	addressService service.IAddressService
}

func NewAddressHandler(addressService service.IAddressService) *AddressHandler {
	if addressService == nil {
		panic("addressService cannot be nil")
	}
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	addresses, err := h.addressService.List(r.Context(), userID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.AddressesResponse{Addresses: addresses})
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())

	var addressDTO dto.CreateAddressDTO
	if err := response.DecodeJSON(r, &addressDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if err := dto.Validate(addressDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	address, err := h.addressService.Create(r.Context(), userID, addressDTO.ToRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusCreated, dto.AddressResponse{Address: address})
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())

	var addressDTO dto.UpdateAddressDTO
	if err := response.DecodeJSON(r, &addressDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if err := dto.Validate(addressDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	address, err := h.addressService.Update(r.Context(), userID, chi.URLParam(r, "id"), addressDTO.ToRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.AddressResponse{Address: address})
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	if err := h.addressService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}
