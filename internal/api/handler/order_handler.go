package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// PlaceOrder POST /orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())

	var orderDTO dto.PlaceOrderDTO
	if err := response.DecodeJSON(r, &orderDTO); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	result, err := h.orderService.PlaceOrder(r.Context(), userID, orderDTO.ToRequest())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusCreated, dto.PlaceOrderResponse{
		Message: "order created",
		OrderID: result.OrderID,
		Total:   result.Total,
	})
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	orders, err := h.orderService.ListOrders(r.Context(), userID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.OrdersResponse{Orders: orders})
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := util.GetUserID(r.Context())
	order, err := h.orderService.GetOrder(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, order)
}
