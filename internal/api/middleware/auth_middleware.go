package middleware

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
)

// 驗證是ctx是否有token payload
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := util.GetUserID(r.Context()); !ok {
			response.ErrorJSON(w, er.New(er.Unauthenticated, "you must be logged in"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
