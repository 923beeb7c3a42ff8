package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const notifyTimeout = 30 * time.Second

type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size" validate:"max=20"`
	Quantity  int    `json:"quantity" validate:"gte=1,lte=99"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress *ShippingAddress   `json:"shippingAddress"`
}

type PlaceOrderResult struct {
	OrderID string          `json:"orderId"`
	Total   decimal.Decimal `json:"total"`
	Quote   PriceQuote      `json:"-"`
}

type IOrderService interface {
	// PlaceOrder 依序檢查 登入 -> 地址欄位 -> 電話 -> 購物車 -> 商品存在, 任一失敗即回傳
	//
	// 錯誤:
	//   - er.Unauthenticated 401
	//   - er.InvalidAddress / er.InvalidPhone / er.EmptyCart / er.Validation 400
	//   - er.ProductNotFound 400: 訊息帶有找不到的商品 id
	//   - er.Unexpected 500
	PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error)
	// ListOrders 使用者的訂單, 新到舊
	ListOrders(ctx context.Context, userID string) ([]model.Order, error)
	// GetOrder 不存在或非本人訂單都回傳 er.NotFound
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
}

type OrderService struct {
	store    db.Store
	carts    redis_repo.ICartRepository
	notifier OrderNotifier
	validate *validator.Validate
}

var _ IOrderService = (*OrderService)(nil)

// NewOrderService carts 可為 nil, 此時下單後不清購物車
func NewOrderService(store db.Store, carts redis_repo.ICartRepository, notifier OrderNotifier) *OrderService {
	if store == nil {
		panic("order service initialization failed: store cannot be nil")
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &OrderService{
		store:    store,
		carts:    carts,
		notifier: notifier,
		validate: validator.New(),
	}
}

func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in to place an order")
	}
	if err := ValidateShipping(req.ShippingAddress); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, er.New(er.EmptyCart, "your cart is empty")
	}
	for i := range req.Items {
		req.Items[i].ProductID = strings.TrimSpace(req.Items[i].ProductID)
		if err := s.validate.Struct(req.Items[i]); err != nil {
			return nil, er.Wrap(er.Validation, "each item needs a productId, a size of at most 20 characters and a quantity between 1 and 99", err)
		}
	}

	shipping := *req.ShippingAddress
	var (
		order        *model.Order
		confirmation OrderConfirmation
	)

	err := s.store.ExecTx(ctx, func(tx db.Store) error {
		user, err := tx.LockUser(ctx, userID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return er.New(er.Unauthenticated, "you must be logged in to place an order")
			}
			return err
		}

		products, err := tx.GetProductsByIDs(ctx, uniqueProductIDs(req.Items))
		if err != nil {
			return err
		}
		productMap := make(map[string]*model.Product, len(products))
		for i := range products {
			productMap[products[i].ID] = &products[i]
		}

		lines := make([]PricedLine, 0, len(req.Items))
		items := make([]model.OrderItem, 0, len(req.Items))
		confirmItems := make([]OrderConfirmationItem, 0, len(req.Items))
		for _, it := range req.Items {
			product, ok := productMap[it.ProductID]
			if !ok {
				return er.Newf(er.ProductNotFound, "product not found: %s", it.ProductID)
			}
			lines = append(lines, PricedLine{UnitPrice: product.Price, Quantity: it.Quantity})
			items = append(items, model.OrderItem{
				ProductID: product.ID,
				Size:      it.Size,
				Quantity:  it.Quantity,
				Price:     product.Price,
			})
			confirmItems = append(confirmItems, OrderConfirmationItem{
				Name:     product.Name,
				Size:     it.Size,
				Quantity: it.Quantity,
				Price:    product.Price,
			})
		}
		quote := Quote(lines)
		if quote.Total.GreaterThan(constants.MaxOrderTotal) {
			return er.Newf(er.Validation, "order total exceeds %s", constants.MaxOrderTotal.StringFixed(2))
		}

		order = &model.Order{
			UserID:            userID,
			Total:             quote.Total,
			Status:            constants.NewOrderStatus,
			ShippingFirstName: strings.TrimSpace(shipping.FirstName),
			ShippingLastName:  strings.TrimSpace(shipping.LastName),
			ShippingAddress:   strings.TrimSpace(shipping.Address),
			ShippingCity:      strings.TrimSpace(shipping.City),
			ShippingZipCode:   strings.TrimSpace(shipping.ZipCode),
			ShippingCountry:   strings.TrimSpace(shipping.Country),
			ShippingPhone:     strings.TrimSpace(shipping.Phone),
			Items:             items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		// 第一次下單時把運送地址存成預設地址
		count, err := tx.CountAddressesByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count == 0 {
			err = tx.CreateAddress(ctx, &model.Address{
				UserID:    userID,
				FirstName: order.ShippingFirstName,
				LastName:  order.ShippingLastName,
				Address:   order.ShippingAddress,
				City:      order.ShippingCity,
				ZipCode:   order.ShippingZipCode,
				Country:   order.ShippingCountry,
				Phone:     order.ShippingPhone,
				IsDefault: true,
			})
			if err != nil {
				return err
			}
		}

		confirmation = OrderConfirmation{
			OrderID:       order.ID,
			Email:         user.Email,
			RecipientName: firstNonBlank(shipping.FirstName, user.FirstName),
			Items:         confirmItems,
			ItemsTotal:    quote.ItemsTotal,
			ShippingCost:  quote.ShippingCost,
			Total:         quote.Total,
			Shipping:      shipping,
			PlacedAt:      order.CreatedAt,
		}
		return nil
	})
	if err != nil {
		if _, ok := er.As(err); ok {
			return nil, err
		}
		log.Error().Err(err).Str("user_id", userID).Msg("failed to place order")
		return nil, er.Wrap(er.Unexpected, "failed to create order", err)
	}

	s.clearCart(ctx, userID)
	s.notify(ctx, confirmation)

	return &PlaceOrderResult{
		OrderID: order.ID,
		Total:   order.Total,
		Quote: PriceQuote{
			ItemsTotal:   confirmation.ItemsTotal,
			ShippingCost: confirmation.ShippingCost,
			Total:        confirmation.Total,
		},
	}, nil
}

func (s *OrderService) clearCart(ctx context.Context, userID string) {
	if s.carts == nil {
		return
	}
	if err := s.carts.Delete(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to clear cart after order")
	}
}

// notify 不等待結果, request 結束後仍會送出
func (s *OrderService) notify(ctx context.Context, confirmation OrderConfirmation) {
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := s.notifier.NotifyOrderPlaced(notifyCtx, confirmation); err != nil {
			log.Error().Err(err).Str("order_id", confirmation.OrderID).Msg("failed to notify order placed")
		}
	}()
}

func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]model.Order, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	orders, err := s.store.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to list orders", err)
	}
	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.New(er.NotFound, "order not found")
		}
		return nil, er.Wrap(er.Unexpected, "failed to get order", err)
	}
	if order.UserID != userID {
		return nil, er.New(er.NotFound, "order not found")
	}
	return order, nil
}

func uniqueProductIDs(items []OrderItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
