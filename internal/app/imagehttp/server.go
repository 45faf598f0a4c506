package imagehttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sir_venger/imgserve/internal/config"
	"github.com/sir_venger/imgserve/internal/imagestore"
	"github.com/sir_venger/imgserve/pkg/imageproto"
)

// Server serves images from a single read-only directory.
type Server struct {
	cfg   *config.Config
	store *imagestore.Store
	log   *slog.Logger
}

// New создаёт HTTP-обработчик поверх открытого каталога изображений.
func New(cfg *config.Config, store *imagestore.Store, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	srv := &Server{
		cfg:   cfg,
		store: store,
		log:   log,
	}

	return srv.routes()
}

// routes регистрирует middleware и обработчики.
func (a *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(a.middlewares()...)

	r.Get("/", a.index)
	r.Head("/", a.index)

	r.Get(imageproto.PathPrefix+"/*", a.fetchImage)
	r.Head(imageproto.PathPrefix+"/*", a.fetchImage)

	r.Get(imageproto.HealthPath, a.health)

	return r
}

// middlewares — цепочка в порядке применения. accessLog стоит до Recoverer,
// чтобы запрос с паникой тоже попал в лог со статусом 500.
func (a *Server) middlewares() []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{requestID}
	if a.cfg.AccessLog {
		mw = append(mw, a.accessLog)
	}
	mw = append(mw,
		middleware.Recoverer,
		// Картинки встраиваются с любых origin'ов, поэтому заголовок ставится на все ответы,
		// включая 404, а preflight обрабатывает cors.
		middleware.SetHeader("Access-Control-Allow-Origin", "*"),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{imageproto.HeaderRequestID},
			MaxAge:         86400,
		}),
	)
	if a.cfg.RateLimit > 0 {
		mw = append(mw, newClientLimiter(a.cfg.RateLimit, a.cfg.RateBurst).middleware)
	}

	return mw
}
