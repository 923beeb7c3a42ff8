package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	view, err := h.cartService.Get(r.Context(), userID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())

	var itemDTO dto.AddCartItemDTO
	if err := response.DecodeJSON(r, &itemDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if err := dto.Validate(itemDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	view, err := h.cartService.AddItem(r.Context(), userID, itemDTO.ToRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, view)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())

	var itemDTO dto.UpdateCartItemDTO
	if err := response.DecodeJSON(r, &itemDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	if err := dto.Validate(itemDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	view, err := h.cartService.UpdateQuantity(r.Context(), userID, itemDTO.ToRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, view)
}

// RemoveItem DELETE /cart/items/{productId}/{size}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	view, err := h.cartService.RemoveItem(r.Context(), userID, chi.URLParam(r, "productId"), chi.URLParam(r, "size"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, view)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	view, err := h.cartService.Clear(r.Context(), userID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, view)
}
