package middleware

import (
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/response"
	"github.com/RoyceAzure/lab/storefront/internal/infra/ratelimit"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/rs/zerolog/log"
)

// RateLimitMiddleware 以 scope + client ip 為 key
// limiter 出錯時放行
func RateLimitMiddleware(limiter ratelimit.Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := scope + ":" + clientIP(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				response.ErrorJSON(w, er.New(er.RateLimited, "too many requests, please retry later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RemoteAddr 已由 chi RealIP 改寫
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
