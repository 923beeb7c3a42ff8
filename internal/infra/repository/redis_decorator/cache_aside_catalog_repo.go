package redis_decorator

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/rs/zerolog/log"
)

/*
catalog 讀多寫少, 列表與 slug 查詢走 cache-aside
GetProductsByIDs / GetProductByID 給下單使用, 一律讀 db 取得最新價格
redis 錯誤只記 log, 退回 db
*/
type CacheAsideCatalogRepo struct {
	db.ICatalogRepository
	cache redis_repo.ICatalogCache
}

func NewCacheAsideCatalogRepo(repo db.ICatalogRepository, cache redis_repo.ICatalogCache) db.ICatalogRepository {
	return &CacheAsideCatalogRepo{ICatalogRepository: repo, cache: cache}
}

func (p *CacheAsideCatalogRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	key := redis_repo.CatalogKey("categories")
	var categories []model.Category
	if p.lookup(ctx, key, &categories) {
		return categories, nil
	}

	categories, err := p.ICatalogRepository.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, categories)
	return categories, nil
}

func (p *CacheAsideCatalogRepo) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	key := redis_repo.CatalogKey("category", slug)
	var category model.Category
	if p.lookup(ctx, key, &category) {
		return &category, nil
	}

	found, err := p.ICatalogRepository.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, found)
	return found, nil
}

func (p *CacheAsideCatalogRepo) ListProducts(ctx context.Context, filter db.ProductFilter) ([]model.Product, error) {
	key := redis_repo.CatalogKey("products", filterKey(filter))
	var products []model.Product
	if p.lookup(ctx, key, &products) {
		return products, nil
	}

	products, err := p.ICatalogRepository.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, products)
	return products, nil
}

func (p *CacheAsideCatalogRepo) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	key := redis_repo.CatalogKey("product", slug)
	var product model.Product
	if p.lookup(ctx, key, &product) {
		return &product, nil
	}

	found, err := p.ICatalogRepository.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, found)
	return found, nil
}

func (p *CacheAsideCatalogRepo) lookup(ctx context.Context, key string, dst any) bool {
	hit, err := p.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache read failed")
		return false
	}
	return hit
}

func (p *CacheAsideCatalogRepo) store(ctx context.Context, key string, value any) {
	if err := p.cache.Set(ctx, key, value); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("catalog cache write failed")
	}
}

func filterKey(f db.ProductFilter) string {
	return fmt.Sprintf("c=%s:f=%t:n=%t", f.CategorySlug, f.FeaturedOnly, f.NewestFirst)
}
