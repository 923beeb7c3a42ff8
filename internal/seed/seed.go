// Package seed loads the catalog YAML and upserts it into the database.
package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Category struct {
	Slug        string `yaml:"slug"`
	Name        string `yaml:"name"`
	Image       string `yaml:"image"`
	Description string `yaml:"description"`
}

type Product struct {
	Slug        string   `yaml:"slug"`
	Name        string   `yaml:"name"`
	Category    string   `yaml:"category"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	Images      []string `yaml:"images"`
	Sizes       []string `yaml:"sizes"`
	Colors      []string `yaml:"colors"`
	Featured    bool     `yaml:"featured"`
	Stock       int      `yaml:"stock"`
}

type Catalog struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

type Result struct {
	Categories int
	Products   int
}

func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析並檢查 catalog, 商品的 category 必須在同一份檔案中定義
func Parse(data []byte) (*Catalog, error) {
	catalog := &Catalog{}
	if err := yaml.Unmarshal(data, catalog); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (c *Catalog) validate() error {
	categories := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.Slug) == "" || strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("category requires slug and name: %+v", cat)
		}
		if _, ok := categories[cat.Slug]; ok {
			return fmt.Errorf("duplicate category slug: %s", cat.Slug)
		}
		categories[cat.Slug] = struct{}{}
	}

	products := make(map[string]struct{}, len(c.Products))
	for _, p := range c.Products {
		if strings.TrimSpace(p.Slug) == "" || strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("product requires slug and name: %+v", p)
		}
		if _, ok := products[p.Slug]; ok {
			return fmt.Errorf("duplicate product slug: %s", p.Slug)
		}
		products[p.Slug] = struct{}{}
		if _, ok := categories[p.Category]; !ok {
			return fmt.Errorf("product %s: unknown category %q", p.Slug, p.Category)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("product %s: invalid price %q: %w", p.Slug, p.Price, err)
		}
		if !price.IsPositive() {
			return fmt.Errorf("product %s: price must be positive", p.Slug)
		}
	}
	return nil
}

// Apply 依 slug upsert, 已存在的資料不覆寫, 重複執行結果相同
func Apply(ctx context.Context, store db.Store, catalog *Catalog) (*Result, error) {
	result := &Result{}
	err := store.ExecTx(ctx, func(tx db.Store) error {
		categoryIDs := make(map[string]string, len(catalog.Categories))
		for _, c := range catalog.Categories {
			category := &model.Category{
				Slug:        c.Slug,
				Name:        c.Name,
				Image:       c.Image,
				Description: c.Description,
			}
			if err := tx.UpsertCategory(ctx, category); err != nil {
				return fmt.Errorf("upsert category %s: %w", c.Slug, err)
			}
			categoryIDs[c.Slug] = category.ID
			result.Categories++
		}

		for _, p := range catalog.Products {
			product := &model.Product{
				Slug:        p.Slug,
				Name:        p.Name,
				Description: p.Description,
				Price:       decimal.RequireFromString(p.Price),
				Images:      nonNil(p.Images),
				Sizes:       nonNil(p.Sizes),
				Colors:      nonNil(p.Colors),
				Featured:    p.Featured,
				Stock:       p.Stock,
				CategoryID:  categoryIDs[p.Category],
			}
			if err := tx.UpsertProduct(ctx, product); err != nil {
				return fmt.Errorf("upsert product %s: %w", p.Slug, err)
			}
			result.Products++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int("categories", result.Categories).Int("products", result.Products).Msg("catalog seeded")
	return result, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
