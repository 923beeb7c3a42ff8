package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/cart"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/dbtest"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *db.GormStore
	carts    *redis_repo.CartRepo
	notifier *fakeNotifier
	service  *OrderService
	user     *model.User
	tee      *model.Product
	pants    *model.Product
}

func (suite *OrderServiceTestSuite) SetupTest() {
	t := suite.T()
	suite.ctx = context.Background()
	suite.store = dbtest.NewStore(t)
	suite.carts = newCartRepo(t)
	suite.notifier = newFakeNotifier()
	suite.service = NewOrderService(suite.store, suite.carts, suite.notifier)

	tops := dbtest.CreateCategory(t, suite.store, "tops", "TOPS")
	pants := dbtest.CreateCategory(t, suite.store, "pants", "PANTS")
	suite.tee = dbtest.CreateProduct(t, suite.store, tops, "oversized-tee-black", "OVERSIZED TEE — BLACK", 45, true)
	suite.pants = dbtest.CreateProduct(t, suite.store, pants, "signature-pants", "SIGNATURE PANTS", 50, true)
	suite.user = dbtest.CreateUser(t, suite.store, "jean@example.com")
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) request(items ...OrderItemRequest) PlaceOrderRequest {
	return PlaceOrderRequest{Items: items, ShippingAddress: validShipping()}
}

func (suite *OrderServiceTestSuite) TestPlaceOrderUsesCatalogPrices() {
	t := suite.T()
	_, err := suite.carts.Update(suite.ctx, suite.user.ID, func(c cart.Cart) cart.Cart {
		return c.Add(cart.Item{ProductID: suite.tee.ID, Size: "M", Price: decimal.NewFromInt(1)}, 2)
	})
	require.NoError(t, err)

	result, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID,
		suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 2}))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("94.90").Equal(result.Total), result.Total.String())
	require.True(t, decimal.NewFromInt(90).Equal(result.Quote.ItemsTotal))
	require.True(t, decimal.RequireFromString("4.90").Equal(result.Quote.ShippingCost))

	order, err := suite.store.GetOrderByID(suite.ctx, result.OrderID)
	require.NoError(t, err)
	require.Equal(t, constants.OrderStatusConfirmed, order.Status)
	require.Equal(t, suite.user.ID, order.UserID)
	require.Equal(t, "+33712345678", order.ShippingPhone)
	require.Len(t, order.Items, 1)
	require.True(t, decimal.NewFromInt(45).Equal(order.Items[0].Price))
	require.Equal(t, "M", order.Items[0].Size)
	require.Equal(t, 2, order.Items[0].Quantity)

	confirmation := suite.notifier.waitForCall(t)
	require.Equal(t, result.OrderID, confirmation.OrderID)
	require.Equal(t, "jean@example.com", confirmation.Email)
	require.Equal(t, "Jean", confirmation.RecipientName)
	require.Equal(t, "OVERSIZED TEE — BLACK", confirmation.Items[0].Name)

	c, err := suite.carts.Get(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
}

func (suite *OrderServiceTestSuite) TestFreeShippingAtThreshold() {
	t := suite.T()
	result, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID,
		suite.request(OrderItemRequest{ProductID: suite.pants.ID, Size: "L", Quantity: 2}))
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(100).Equal(result.Total), result.Total.String())
	require.True(t, result.Quote.ShippingCost.IsZero())
}

func (suite *OrderServiceTestSuite) TestDuplicateProductLines() {
	t := suite.T()
	result, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID, suite.request(
		OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1},
		OrderItemRequest{ProductID: suite.tee.ID, Size: "L", Quantity: 1},
	))
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("94.90").Equal(result.Total))

	order, err := suite.store.GetOrderByID(suite.ctx, result.OrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
}

func (suite *OrderServiceTestSuite) TestFirstOrderCreatesDefaultAddress() {
	t := suite.T()
	_, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID,
		suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1}))
	require.NoError(t, err)

	addresses, err := suite.store.ListAddressesByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	require.True(t, addresses[0].IsDefault)
	require.Equal(t, "1 rue de Rivoli", addresses[0].Address)
	require.Equal(t, "Paris", addresses[0].City)
	require.Equal(t, "+33712345678", addresses[0].Phone)

	// 已有地址時不再新增
	_, err = suite.service.PlaceOrder(suite.ctx, suite.user.ID,
		suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1}))
	require.NoError(t, err)
	count, err := suite.store.CountAddressesByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func (suite *OrderServiceTestSuite) TestValidationOrder() {
	t := suite.T()
	valid := OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1}

	noAddress := PlaceOrderRequest{Items: []OrderItemRequest{valid}}
	badPhone := suite.request()
	badPhone.ShippingAddress.Phone = "0712345678"
	blankField := suite.request()
	blankField.ShippingAddress.ZipCode = " "
	blankField.ShippingAddress.Phone = "0712345678"
	longZip := suite.request(valid)
	longZip.ShippingAddress.ZipCode = strings.Repeat("7", 21)

	testCases := []struct {
		name   string
		userID string
		req    PlaceOrderRequest
		kind   er.Kind
	}{
		{"unauthenticated first", "", PlaceOrderRequest{}, er.Unauthenticated},
		{"missing address", suite.user.ID, noAddress, er.InvalidAddress},
		{"blank field before phone", suite.user.ID, blankField, er.InvalidAddress},
		{"phone before empty cart", suite.user.ID, badPhone, er.InvalidPhone},
		{"empty cart", suite.user.ID, suite.request(), er.EmptyCart},
		{"zero quantity", suite.user.ID, suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M"}), er.Validation},
		{"blank product id", suite.user.ID, suite.request(OrderItemRequest{ProductID: "  ", Quantity: 1}), er.Validation},
		{"size too long", suite.user.ID, suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: strings.Repeat("X", 21), Quantity: 1}), er.Validation},
		{"quantity over limit", suite.user.ID, suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1_000_000_000}), er.Validation},
		{"zip code too long", suite.user.ID, longZip, er.Validation},
		{"unknown user", "ghost", suite.request(valid), er.Unauthenticated},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			_, err := suite.service.PlaceOrder(suite.ctx, tc.userID, tc.req)
			require.Error(suite.T(), err)
			require.True(suite.T(), er.IsKind(err, tc.kind), err.Error())
		})
	}

	orders, err := suite.store.ListOrdersByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func (suite *OrderServiceTestSuite) TestTotalOverColumnLimitWritesNothing() {
	t := suite.T()
	tops, err := suite.store.GetCategoryBySlug(suite.ctx, "tops")
	require.NoError(t, err)
	coat := dbtest.CreateProduct(t, suite.store, tops, "couture-coat", "COUTURE COAT", 9_000_000, false)

	_, err = suite.service.PlaceOrder(suite.ctx, suite.user.ID, suite.request(
		OrderItemRequest{ProductID: coat.ID, Size: "M", Quantity: 12}))
	require.True(t, er.IsKind(err, er.Validation), err)

	orders, err := suite.store.ListOrdersByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func (suite *OrderServiceTestSuite) TestUnknownProductWritesNothing() {
	t := suite.T()
	_, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID, suite.request(
		OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1},
		OrderItemRequest{ProductID: "missing-product", Size: "M", Quantity: 1},
	))
	require.True(t, er.IsKind(err, er.ProductNotFound))
	require.Contains(t, err.Error(), "missing-product")

	orders, err := suite.store.ListOrdersByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Empty(t, orders)

	count, err := suite.store.CountAddressesByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func (suite *OrderServiceTestSuite) TestNotifierFailureDoesNotFailOrder() {
	t := suite.T()
	suite.notifier.err = errors.New("smtp down")

	result, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID,
		suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1}))
	require.NoError(t, err)
	suite.notifier.waitForCall(t)

	_, err = suite.store.GetOrderByID(suite.ctx, result.OrderID)
	require.NoError(t, err)
}

func (suite *OrderServiceTestSuite) TestGetOrderOwnerOnly() {
	t := suite.T()
	result, err := suite.service.PlaceOrder(suite.ctx, suite.user.ID,
		suite.request(OrderItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1}))
	require.NoError(t, err)

	order, err := suite.service.GetOrder(suite.ctx, suite.user.ID, result.OrderID)
	require.NoError(t, err)
	require.NotNil(t, order.Items[0].Product)
	require.Equal(t, "oversized-tee-black", order.Items[0].Product.Slug)

	other := dbtest.CreateUser(t, suite.store, "marie@example.com")
	_, err = suite.service.GetOrder(suite.ctx, other.ID, result.OrderID)
	require.True(t, er.IsKind(err, er.NotFound))

	_, err = suite.service.GetOrder(suite.ctx, suite.user.ID, "missing")
	require.True(t, er.IsKind(err, er.NotFound))

	orders, err := suite.service.ListOrders(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	orders, err = suite.service.ListOrders(suite.ctx, other.ID)
	require.NoError(t, err)
	require.Empty(t, orders)
}
