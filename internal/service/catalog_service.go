package service

import (
	"context"
	"errors"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/constants"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/search"
)

type ICatalogService interface {
	// Search 依關鍵字排名商品, 空白查詢回傳整份 catalog (依建立時間)
	Search(ctx context.Context, query string) ([]search.Summary, error)
	// GetProductBySlug
	// 錯誤:
	//   - er.NotFound 404: 商品不存在
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	// ListByCategory all = 全部, new = featured, 其餘為分類 slug, 新到舊
	// 錯誤:
	//   - er.NotFound 404: 分類不存在
	ListByCategory(ctx context.Context, slug string) (*Collection, error)
	ListFeatured(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

type Collection struct {
	Category *model.Category `json:"category"`
	Products []model.Product `json:"products"`
}

type CatalogService struct {
	repo db.ICatalogRepository
}

var _ ICatalogService = (*CatalogService)(nil)

func NewCatalogService(repo db.ICatalogRepository) *CatalogService {
	if repo == nil {
		panic("catalog service initialization failed: repo cannot be nil")
	}
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Search(ctx context.Context, query string) ([]search.Summary, error) {
	products, err := s.repo.ListProducts(ctx, db.ProductFilter{})
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to list products", err)
	}

	docs := make([]search.Document, 0, len(products))
	for i := range products {
		docs = append(docs, toDocument(&products[i]))
	}
	return search.Rank(query, docs), nil
}

func toDocument(p *model.Product) search.Document {
	d := search.Document{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.PrimaryImage(),
	}
	if p.Category != nil {
		d.Category = p.Category.Name
	}
	return d
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, er.Newf(er.NotFound, "product %s not found", slug)
		}
		return nil, er.Wrap(er.Unexpected, "failed to get product", err)
	}
	return product, nil
}

func (s *CatalogService) ListByCategory(ctx context.Context, slug string) (*Collection, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	category, err := s.repo.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, er.Wrap(er.Unexpected, "failed to get category", err)
		}
		// all / new 不一定有實體分類
		if slug != constants.CategoryAll && slug != constants.CategoryNew {
			return nil, er.Newf(er.NotFound, "collection %s not found", slug)
		}
		category = &model.Category{Slug: slug, Name: strings.ToUpper(slug)}
	}

	filter := db.ProductFilter{NewestFirst: true}
	switch slug {
	case constants.CategoryAll:
	case constants.CategoryNew:
		filter.FeaturedOnly = true
	default:
		filter.CategorySlug = slug
	}

	products, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to list products", err)
	}
	return &Collection{Category: category, Products: products}, nil
}

func (s *CatalogService) ListFeatured(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.ListProducts(ctx, db.ProductFilter{FeaturedOnly: true})
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to list featured products", err)
	}
	return products, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, er.Wrap(er.Unexpected, "failed to list categories", err)
	}
	return categories, nil
}
