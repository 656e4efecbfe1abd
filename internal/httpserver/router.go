package httpserver

import (
	"log/slog"
	"net/http"

	"patternadvisor/internal/middleware"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Logger           *slog.Logger
	RecommendHandler http.Handler
	// StaticDir, если задан, отдаётся как собранный фронтенд.
	StaticDir   string
	CORSOrigins []string
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS(deps.CORSOrigins))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Post("/recommend", deps.RecommendHandler.ServeHTTP)

	if deps.StaticDir != "" {
		r.Get("/*", http.FileServer(http.Dir(deps.StaticDir)).ServeHTTP)
	}

	return r
}
