package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/infra/auth/token"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, tokenMaker token.Maker, limiter ratelimit.Limiter, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.AuthPayloadMiddleware(tokenMaker))
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			response.SuccessJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// 商品目錄, 不需登入
		r.Get("/products", server.CatalogHandler.SearchProducts)
		r.Get("/products/featured", server.CatalogHandler.FeaturedProducts)
		r.Get("/products/{slug}", server.CatalogHandler.ProductBySlug)
		r.Get("/categories", server.CatalogHandler.Categories)
		r.Get("/collections/{slug}", server.CatalogHandler.Collection)

		r.Route("/auth", func(r chi.Router) {
			r.With(m.RateLimitMiddleware(limiter, "register")).Post("/register", server.AuthHandler.Register)
			r.With(m.RateLimitMiddleware(limiter, "login")).Post("/login", server.AuthHandler.Login)
			r.With(m.AuthMiddleware).Get("/me", server.AuthHandler.Me)
		})

		// 以下都需要登入
		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware)

			r.Route("/orders", func(r chi.Router) {
				r.With(m.RateLimitMiddleware(limiter, "orders")).Post("/", server.OrderHandler.PlaceOrder)
				r.Get("/", server.OrderHandler.ListOrders)
				r.Get("/{id}", server.OrderHandler.GetOrder)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", server.AddressHandler.List)
				r.Post("/", server.AddressHandler.Create)
				r.Put("/{id}", server.AddressHandler.Update)
				r.Delete("/{id}", server.AddressHandler.Delete)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.Get)
				r.Delete("/", server.CartHandler.Clear)
				r.Post("/items", server.CartHandler.AddItem)
				r.Patch("/items", server.CartHandler.UpdateItem)
				r.Delete("/items/{productId}/{size}", server.CartHandler.RemoveItem)
			})
		})
	})

	// 在設置完所有路由後打印路由樹
	if err := chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		logger.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	}); err != nil {
		logger.Warn().Err(err).Msg("walk routes failed")
	}
	return r
}
