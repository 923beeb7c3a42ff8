package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/cart"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type AddCartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type UpdateCartItemRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

type CartView struct {
	Items     []cart.Item     `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

func NewCartView(c cart.Cart) *CartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return &CartView{Items: items, Subtotal: c.Subtotal(), ItemCount: c.ItemCount()}
}

type ICartService interface {
	Get(ctx context.Context, userID string) (*CartView, error)
	// AddItem 商品資料與單價取自 catalog
	// 錯誤:
	//   - er.ProductNotFound 400
	AddItem(ctx context.Context, userID string, req AddCartItemRequest) (*CartView, error)
	// UpdateQuantity 數量 <= 0 移除該筆
	UpdateQuantity(ctx context.Context, userID string, req UpdateCartItemRequest) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID, size string) (*CartView, error)
	Clear(ctx context.Context, userID string) (*CartView, error)
}

type CartService struct {
	carts   redis_repo.ICartRepository
	catalog db.ICatalogRepository
}

var _ ICartService = (*CartService)(nil)

func NewCartService(carts redis_repo.ICartRepository, catalog db.ICatalogRepository) *CartService {
	if carts == nil {
		panic("cart service initialization failed: carts cannot be nil")
	}
	if catalog == nil {
		panic("cart service initialization failed: catalog cannot be nil")
	}
	return &CartService{carts: carts, catalog: catalog}
}

func (s *CartService) Get(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, s.unexpected(err, userID, "failed to get cart")
	}
	return NewCartView(c), nil
}

func (s *CartService) AddItem(ctx context.Context, userID string, req AddCartItemRequest) (*CartView, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, er.New(er.Validation, "productId is required")
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.Newf(er.ProductNotFound, "product not found: %s", productID)
		}
		return nil, s.unexpected(err, userID, "failed to get product")
	}

	item := cart.Item{
		ProductID: product.ID,
		Size:      strings.TrimSpace(req.Size),
		Color:     strings.TrimSpace(req.Color),
		Price:     product.Price,
		Name:      product.Name,
		Image:     product.PrimaryImage(),
		Slug:      product.Slug,
	}
	c, err := s.carts.Update(ctx, userID, func(c cart.Cart) cart.Cart {
		return c.Add(item, req.Quantity)
	})
	if err != nil {
		return nil, s.unexpected(err, userID, "failed to add cart item")
	}
	return NewCartView(c), nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID string, req UpdateCartItemRequest) (*CartView, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	key := cart.Key{ProductID: strings.TrimSpace(req.ProductID), Size: strings.TrimSpace(req.Size)}
	c, err := s.carts.Update(ctx, userID, func(c cart.Cart) cart.Cart {
		return c.UpdateQuantity(key, req.Quantity)
	})
	if err != nil {
		return nil, s.unexpected(err, userID, "failed to update cart item")
	}
	return NewCartView(c), nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID, size string) (*CartView, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	key := cart.Key{ProductID: strings.TrimSpace(productID), Size: strings.TrimSpace(size)}
	c, err := s.carts.Update(ctx, userID, func(c cart.Cart) cart.Cart {
		return c.Remove(key)
	})
	if err != nil {
		return nil, s.unexpected(err, userID, "failed to remove cart item")
	}
	return NewCartView(c), nil
}

func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, er.New(er.Unauthenticated, "you must be logged in")
	}
	if err := s.carts.Delete(ctx, userID); err != nil {
		return nil, s.unexpected(err, userID, "failed to clear cart")
	}
	return NewCartView(cart.Cart{}.Clear()), nil
}

func (s *CartService) unexpected(err error, userID, msg string) error {
	log.Error().Err(err).Str("user_id", userID).Msg(msg)
	return er.Wrap(er.Unexpected, msg, err)
}
