// Package dbtest opens throwaway SQLite stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewStore 每個測試一個 SQLite 檔案, schema 由 InitMigrate 建立
func NewStore(t testing.TB) *db.GormStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storefront.db")
	conn, err := gorm.Open(sqlite.Open(path+"?_pragma=busy_timeout(5000)"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := db.NewStore(conn)
	require.NoError(t, store.InitMigrate())

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store
}

func CreateUser(t testing.TB, store db.Store, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Jean",
		LastName:     "Dupont",
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func CreateCategory(t testing.TB, store db.Store, slug, name string) *model.Category {
	t.Helper()
	c := &model.Category{Slug: slug, Name: name, Image: "/images/" + slug + ".jpg"}
	require.NoError(t, store.UpsertCategory(context.Background(), c))
	return c
}

// CreateProduct 依序建立時 created_at 保持遞增
func CreateProduct(t testing.TB, store db.Store, category *model.Category, slug, name string, price int64, featured bool) *model.Product {
	t.Helper()
	time.Sleep(2 * time.Millisecond)
	p := &model.Product{
		Slug:        slug,
		Name:        name,
		Description: fmt.Sprintf("%s description", name),
		Price:       decimal.NewFromInt(price),
		Images:      []string{"/images/" + slug + ".png", "/images/" + slug + "-b.png"},
		Sizes:       []string{"S", "M", "L"},
		Colors:      []string{"Noir"},
		Featured:    featured,
		Stock:       10,
		CategoryID:  category.ID,
	}
	require.NoError(t, store.UpsertProduct(context.Background(), p))
	return p
}
