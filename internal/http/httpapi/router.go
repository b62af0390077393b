package httpapi

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gelehaus/tryon/internal/http/handlers"
	"github.com/gelehaus/tryon/internal/middleware"
)

// Options carries the cross-cutting settings of the router.
type Options struct {
	Logger          zerolog.Logger
	AllowedOrigins  []string
	RateLimitPerMin int
	// TrustProxy rewrites the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool
	// Static serves filesystem store objects under /static when set.
	Static http.Handler
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/healthz", app.Health)
	r.Get("/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)

	r.Route("/try-on", func(r chi.Router) {
		r.Get("/", app.TryOnStatus)
		r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/", app.TryOn)
	})
	r.With(middleware.RateLimit(opts.RateLimitPerMin, time.Minute)).Post("/mannequins", app.ConvertMannequin)

	r.Route("/styles", func(r chi.Router) {
		r.Get("/", app.ListStyles)
		r.Get("/{id}", app.GetStyle)
	})

	if opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", opts.Static))
	}

	return r
}
