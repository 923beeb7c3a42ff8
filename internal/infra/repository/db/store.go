package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

// Store 統一的資料庫介面
type Store interface {
	// 基礎操作
	GetDB() *gorm.DB
	InitMigrate() error
	// ExecTx 在同一個交易內執行 fn, fn 回傳錯誤時整筆 rollback
	ExecTx(ctx context.Context, fn func(tx Store) error) error

	ICatalogRepository
	IUserRepository
	IAddressRepository
	IOrderRepository
}

// ICatalogRepository 商品與分類
type ICatalogRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	UpsertCategory(ctx context.Context, category *model.Category) error
	UpsertProduct(ctx context.Context, product *model.Product) error
}

type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	LockUser(ctx context.Context, id string) (*model.User, error)
}

type IAddressRepository interface {
	ListAddressesByUser(ctx context.Context, userID string) ([]model.Address, error)
	GetAddressByID(ctx context.Context, id string) (*model.Address, error)
	CountAddressesByUser(ctx context.Context, userID string) (int64, error)
	CreateAddress(ctx context.Context, address *model.Address) error
	UpdateAddress(ctx context.Context, address *model.Address) error
	DeleteAddress(ctx context.Context, id string) error
	ClearDefaultAddresses(ctx context.Context, userID, exceptID string) error
	GetLatestAddress(ctx context.Context, userID string) (*model.Address, error)
	SetDefaultAddress(ctx context.Context, id string) error
}

type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
}

// GormStore 以 gorm 實作 Store
type GormStore struct {
	dao *DbDao
	*CatalogRepo
	*UserRepo
	*AddressRepo
	*OrderRepo
}

var _ Store = (*GormStore)(nil)

func NewStore(conn *gorm.DB) *GormStore {
	dao := NewDbDao(conn)
	return &GormStore{
		dao:         dao,
		CatalogRepo: NewCatalogRepo(dao),
		UserRepo:    NewUserRepo(dao),
		AddressRepo: NewAddressRepo(dao),
		OrderRepo:   NewOrderRepo(dao),
	}
}

func (s *GormStore) GetDB() *gorm.DB {
	return s.dao.DB
}

func (s *GormStore) InitMigrate() error {
	return s.dao.InitMigrate()
}

func (s *GormStore) ExecTx(ctx context.Context, fn func(tx Store) error) error {
	return s.dao.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
