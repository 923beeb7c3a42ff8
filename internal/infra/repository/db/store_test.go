package db_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/dbtest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	store *db.GormStore
	ctx   context.Context
	tops  *model.Category
	pants *model.Category
	user  *model.User
}

func (suite *StoreTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = dbtest.NewStore(suite.T())
	suite.tops = dbtest.CreateCategory(suite.T(), suite.store, "tops", "TOPS")
	suite.pants = dbtest.CreateCategory(suite.T(), suite.store, "pants", "PANTS")
	suite.user = dbtest.CreateUser(suite.T(), suite.store, "jean@example.com")
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (suite *StoreTestSuite) TestListProductsFilters() {
	t := suite.T()
	tee := dbtest.CreateProduct(t, suite.store, suite.tops, "tee", "OVERSIZED TEE", 45, true)
	hoodie := dbtest.CreateProduct(t, suite.store, suite.tops, "hoodie", "ESSENTIAL HOODIE", 85, false)
	cargo := dbtest.CreateProduct(t, suite.store, suite.pants, "cargo", "CARGO PANTS", 75, true)

	all, err := suite.store.ListProducts(suite.ctx, db.ProductFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{tee.ID, hoodie.ID, cargo.ID}, productIDs(all))
	require.NotNil(t, all[0].Category)
	require.Equal(t, "TOPS", all[0].Category.Name)
	require.Equal(t, []string{"/images/tee.png", "/images/tee-b.png"}, all[0].Images)
	require.True(t, decimal.NewFromInt(45).Equal(all[0].Price))

	newest, err := suite.store.ListProducts(suite.ctx, db.ProductFilter{NewestFirst: true})
	require.NoError(t, err)
	require.Equal(t, []string{cargo.ID, hoodie.ID, tee.ID}, productIDs(newest))

	tops, err := suite.store.ListProducts(suite.ctx, db.ProductFilter{CategorySlug: "tops", NewestFirst: true})
	require.NoError(t, err)
	require.Equal(t, []string{hoodie.ID, tee.ID}, productIDs(tops))

	featured, err := suite.store.ListProducts(suite.ctx, db.ProductFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Equal(t, []string{tee.ID, cargo.ID}, productIDs(featured))
}

func (suite *StoreTestSuite) TestProductLookups() {
	t := suite.T()
	tee := dbtest.CreateProduct(t, suite.store, suite.tops, "tee", "OVERSIZED TEE", 45, true)

	got, err := suite.store.GetProductBySlug(suite.ctx, "tee")
	require.NoError(t, err)
	require.Equal(t, tee.ID, got.ID)

	_, err = suite.store.GetProductBySlug(suite.ctx, "missing")
	require.ErrorIs(t, err, db.ErrNotFound)

	byIDs, err := suite.store.GetProductsByIDs(suite.ctx, []string{tee.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)

	empty, err := suite.store.GetProductsByIDs(suite.ctx, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func (suite *StoreTestSuite) TestUpsertIsIdempotent() {
	t := suite.T()
	again := &model.Category{Slug: "tops", Name: "CHANGED"}
	require.NoError(t, suite.store.UpsertCategory(suite.ctx, again))
	require.Equal(t, suite.tops.ID, again.ID)
	require.Equal(t, "TOPS", again.Name)

	categories, err := suite.store.ListCategories(suite.ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
}

func (suite *StoreTestSuite) TestAddressOrdering() {
	t := suite.T()
	first := suite.createAddress(false)
	def := suite.createAddress(true)
	last := suite.createAddress(false)

	list, err := suite.store.ListAddressesByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{def.ID, last.ID, first.ID}, addressIDs(list))

	latest, err := suite.store.GetLatestAddress(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Equal(t, last.ID, latest.ID)

	require.NoError(t, suite.store.ClearDefaultAddresses(suite.ctx, suite.user.ID, ""))
	count, err := suite.store.CountAddressesByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	got, err := suite.store.GetAddressByID(suite.ctx, def.ID)
	require.NoError(t, err)
	require.False(t, got.IsDefault)
}

func (suite *StoreTestSuite) TestExecTxRollsBack() {
	t := suite.T()
	boom := errors.New("boom")

	err := suite.store.ExecTx(suite.ctx, func(tx db.Store) error {
		if err := tx.CreateAddress(suite.ctx, suite.newAddress(true)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := suite.store.CountAddressesByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func (suite *StoreTestSuite) TestOrderRoundTrip() {
	t := suite.T()
	tee := dbtest.CreateProduct(t, suite.store, suite.tops, "tee", "OVERSIZED TEE", 45, true)

	order := &model.Order{
		UserID:            suite.user.ID,
		Total:             decimal.RequireFromString("94.90"),
		Status:            constants.OrderStatusConfirmed,
		ShippingFirstName: "Jean",
		ShippingLastName:  "Dupont",
		ShippingAddress:   "1 rue de Rivoli",
		ShippingCity:      "Paris",
		ShippingZipCode:   "75001",
		ShippingCountry:   "France",
		ShippingPhone:     "+33712345678",
		Items: []model.OrderItem{
			{ProductID: tee.ID, Size: "M", Quantity: 2, Price: tee.Price},
		},
	}
	require.NoError(t, suite.store.CreateOrder(suite.ctx, order))
	require.NotEmpty(t, order.ID)

	got, err := suite.store.GetOrderByID(suite.ctx, order.ID)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("94.9").Equal(got.Total))
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	require.Equal(t, "OVERSIZED TEE", got.Items[0].Product.Name)
	require.True(t, decimal.NewFromInt(90).Equal(got.Items[0].LineTotal()))

	orders, err := suite.store.ListOrdersByUser(suite.ctx, suite.user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	_, err = suite.store.GetOrderByID(suite.ctx, "missing")
	require.ErrorIs(t, err, db.ErrNotFound)
}

func (suite *StoreTestSuite) TestUserLookups() {
	t := suite.T()
	got, err := suite.store.GetUserByEmail(suite.ctx, "jean@example.com")
	require.NoError(t, err)
	require.Equal(t, suite.user.ID, got.ID)

	err = suite.store.ExecTx(suite.ctx, func(tx db.Store) error {
		locked, err := tx.LockUser(suite.ctx, suite.user.ID)
		if err != nil {
			return err
		}
		require.Equal(t, suite.user.ID, locked.ID)
		return nil
	})
	require.NoError(t, err)

	_, err = suite.store.GetUserByID(suite.ctx, "missing")
	require.ErrorIs(t, err, db.ErrNotFound)
}

func (suite *StoreTestSuite) newAddress(isDefault bool) *model.Address {
	return &model.Address{
		UserID:    suite.user.ID,
		FirstName: "Jean",
		LastName:  "Dupont",
		Address:   "1 rue de Rivoli",
		City:      "Paris",
		ZipCode:   "75001",
		Country:   "France",
		Phone:     "+33712345678",
		IsDefault: isDefault,
	}
}

func (suite *StoreTestSuite) createAddress(isDefault bool) *model.Address {
	time.Sleep(2 * time.Millisecond)
	a := suite.newAddress(isDefault)
	require.NoError(suite.T(), suite.store.CreateAddress(suite.ctx, a))
	return a
}

func productIDs(products []model.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func addressIDs(addresses []model.Address) []string {
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, a.ID)
	}
	return out
}
