package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Timeout ограничивает контекст запроса; обработчик работает в той же горутине,
// поэтому 504 пишется только если ответ ещё не начат
func Timeout(timeout time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
					ww.Header().Set("Content-Type", "text/plain; charset=utf-8")
					ww.WriteHeader(http.StatusGatewayTimeout)
					ww.Write([]byte("El backend no respondió a tiempo"))
				}
			}()

			next.ServeHTTP(ww, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
