package middleware

import (
	"net/http"
	"os"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/rs/zerolog"
)

type StatusRecoder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecoder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecoder) Status() int {
	return w.status
}

func getUserID(r *http.Request) string {
	if id, ok := util.GetUserID(r.Context()); ok {
		return id
	}
	return "unknown"
}

// 記錄request 請求
func LoggerMiddleware(logger *zerolog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		temp := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &temp
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recoder := &StatusRecoder{
				ResponseWriter: w,
				status:         http.StatusOK,
			}
			start := time.Now()
			next.ServeHTTP(recoder, r)

			evt := logger.Info()
			if recoder.Status() >= http.StatusInternalServerError {
				evt = logger.Error()
			}
			evt.Str("request_id", util.GetRequestID(r.Context())).
				Str("user_id", getUserID(r)).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", recoder.Status()).
				Dur("latency", time.Since(start)).
				Msg("request completed")
		})
	}
}
