package service

import (
	"context"
	"testing"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/dbtest"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CartServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *db.GormStore
	service *CartService
	tee     *model.Product
	beanie  *model.Product
}

func (suite *CartServiceTestSuite) SetupTest() {
	t := suite.T()
	suite.ctx = context.Background()
	suite.store = dbtest.NewStore(t)
	suite.service = NewCartService(newCartRepo(t), suite.store)

	tops := dbtest.CreateCategory(t, suite.store, "tops", "TOPS")
	acc := dbtest.CreateCategory(t, suite.store, "accessoires", "ACCESSOIRES")
	suite.tee = dbtest.CreateProduct(t, suite.store, tops, "oversized-tee-black", "OVERSIZED TEE — BLACK", 45, true)
	suite.beanie = dbtest.CreateProduct(t, suite.store, acc, "swirl-beanie-teal", "SWIRL BEANIE — TEAL", 35, true)
}

func TestCartServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}

func (suite *CartServiceTestSuite) TestAddItemSnapshotsCatalog() {
	t := suite.T()
	view, err := suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	item := view.Items[0]
	require.Equal(t, "OVERSIZED TEE — BLACK", item.Name)
	require.Equal(t, "oversized-tee-black", item.Slug)
	require.Equal(t, "/images/oversized-tee-black.png", item.Image)
	require.True(t, decimal.NewFromInt(45).Equal(item.Price))

	view, err = suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.Equal(t, 3, view.ItemCount)

	view, err = suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.beanie.ID, Size: "TU"})
	require.NoError(t, err)
	require.Equal(t, 4, view.ItemCount)
	require.True(t, decimal.NewFromInt(170).Equal(view.Subtotal), view.Subtotal.String())

	_, err = suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: "missing", Size: "M", Quantity: 1})
	require.True(t, er.IsKind(err, er.ProductNotFound))

	_, err = suite.service.AddItem(suite.ctx, "", AddCartItemRequest{ProductID: suite.tee.ID})
	require.True(t, er.IsKind(err, er.Unauthenticated))
}

func (suite *CartServiceTestSuite) TestUpdateRemoveClear() {
	t := suite.T()
	_, err := suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1})
	require.NoError(t, err)
	_, err = suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.beanie.ID, Size: "TU", Quantity: 1})
	require.NoError(t, err)

	view, err := suite.service.UpdateQuantity(suite.ctx, "u1", UpdateCartItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 6, view.ItemCount)

	view, err = suite.service.UpdateQuantity(suite.ctx, "u1", UpdateCartItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 0})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	view, err = suite.service.RemoveItem(suite.ctx, "u1", suite.beanie.ID, "TU")
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.NotNil(t, view.Items)

	_, err = suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.beanie.ID, Size: "TU", Quantity: 1})
	require.NoError(t, err)
	view, err = suite.service.Clear(suite.ctx, "u1")
	require.NoError(t, err)
	require.Zero(t, view.ItemCount)

	view, err = suite.service.Get(suite.ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, view.Items)
}

func (suite *CartServiceTestSuite) TestCartsAreIsolatedPerUser() {
	t := suite.T()
	_, err := suite.service.AddItem(suite.ctx, "u1", AddCartItemRequest{ProductID: suite.tee.ID, Size: "M", Quantity: 1})
	require.NoError(t, err)

	view, err := suite.service.Get(suite.ctx, "u2")
	require.NoError(t, err)
	require.Empty(t, view.Items)
}
