package db

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm/clause"
)

// ProductFilter 商品列表查詢條件, 零值代表全部商品依建立時間遞增
type ProductFilter struct {
	CategorySlug string
	FeaturedOnly bool
	NewestFirst  bool
}

type CatalogRepo struct {
	db *DbDao
}

func NewCatalogRepo(db *DbDao) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&categories).Error
	return categories, err
}

func (r *CatalogRepo) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *CatalogRepo) ListProducts(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Preload("Category")

	if filter.CategorySlug != "" {
		sub := r.db.WithContext(ctx).Model(&model.Category{}).Select("id").Where("slug = ?", filter.CategorySlug)
		query = query.Where("category_id IN (?)", sub)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}
	if filter.NewestFirst {
		query = query.Order("created_at DESC")
	} else {
		query = query.Order("created_at ASC")
	}

	var products []model.Product
	err := query.Find(&products).Error
	return products, err
}

func (r *CatalogRepo) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("slug = ?", slug).First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *CatalogRepo) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// GetProductsByIDs 找不到的 id 不會回錯, 由呼叫端比對
func (r *CatalogRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// UpsertCategory 以 slug 為準, 已存在時不覆寫, 回填資料庫中的紀錄
func (r *CatalogRepo) UpsertCategory(ctx context.Context, category *model.Category) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(category).Error
	if err != nil {
		return err
	}
	var stored model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", category.Slug).First(&stored).Error; err != nil {
		return translate(err)
	}
	*category = stored
	return nil
}

func (r *CatalogRepo) UpsertProduct(ctx context.Context, product *model.Product) error {
	err := r.db.WithContext(ctx).
		Omit("Category").
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(product).Error
	if err != nil {
		return err
	}
	var stored model.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", product.Slug).First(&stored).Error; err != nil {
		return translate(err)
	}
	*product = stored
	return nil
}
