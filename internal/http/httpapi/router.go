package httpapi

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"ledger/internal/http/handlers"
	"ledger/internal/middleware"
)

// Options configures the middleware chain.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	AuthRateLimit  int
	TrustedProxies []*net.IPNet
	DefaultLocale  string
	CountryLookup  middleware.CountryLookup
	Logger         zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/readyz", app.Ready)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.AuthRateLimit, time.Minute, opts.TrustedProxies...))
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(opts.JWTSecret))

		r.Route("/donations", func(r chi.Router) {
			r.Post("/", app.CreateDonation)
			r.Get("/", app.ListDonations)
			r.Put("/", app.UpdateDonation)
			r.Delete("/", app.DeleteDonation)
			r.Get("/report", app.DonationReport)
			r.Get("/{id}", app.GetDonation)
		})

		r.Route("/reporting", func(r chi.Router) {
			r.Get("/", app.ReportOverview)
			r.Get("/export", app.ReportingExport)
		})
	})

	return r
}
