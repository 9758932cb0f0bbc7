package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupMiddleware_MountsAppRouter(t *testing.T) {
	app := chi.NewRouter()
	app.Get("/sections/{section}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-ID", middleware.GetReqID(r.Context()))
		w.Write([]byte(chi.URLParam(r, "section")))
	})

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	s := NewServer(ServerConfig{Address: ":0"}, app, zerolog.Nop())
	s.SetupMiddleware(Middlewares{
		CORS:     mark("cors"),
		Timeout:  mark("timeout"),
		Logger:   mark("logger"),
		Metrics:  mark("metrics"),
		Recovery: mark("recovery"),
	})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sections/users/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "users", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, []string{"cors", "timeout", "logger", "metrics", "recovery"}, order)
}

func TestShutdown_BeforeStart(t *testing.T) {
	s := NewServer(ServerConfig{Address: ":0"}, chi.NewRouter(), zerolog.Nop())
	assert.NoError(t, s.Shutdown(context.Background()))
}
