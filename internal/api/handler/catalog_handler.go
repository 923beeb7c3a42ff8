package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogService service.ICatalogService
}

func NewCatalogHandler(catalogService service.ICatalogService) *CatalogHandler {
	if catalogService == nil {
		panic("catalogService cannot be nil")
	}
	return &CatalogHandler{catalogService: catalogService}
}

// SearchProducts GET /products?q=
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	results, err := h.catalogService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, results)
}

func (h *CatalogHandler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListFeatured(r.Context())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) ProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogService.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, categories)
}

// Collection GET /collections/{slug}, all 與 new 為保留 slug
func (h *CatalogHandler) Collection(w http.ResponseWriter, r *http.Request) {
	collection, err := h.catalogService.ListByCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, collection)
}
