package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veloretail/bulkcart-backend/api/controllers"
	"github.com/veloretail/bulkcart-backend/api/middleware"
	"github.com/veloretail/bulkcart-backend/pkg/auth/session"
	"github.com/veloretail/bulkcart-backend/pkg/config"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
	"github.com/veloretail/bulkcart-backend/pkg/metrics"
	"github.com/veloretail/bulkcart-backend/pkg/redis"
	"github.com/veloretail/bulkcart-backend/pkg/security"
)

// Params bundles everything the router needs wired.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Redis    *redis.Client
	Codec    *security.PayloadCodec
	Metrics  *metrics.HTTPMetrics

	Health   *controllers.HealthController
	Auth     *controllers.AuthController
	OTP      *controllers.OTPController
	Products *controllers.ProductController
	Cart     *controllers.CartController
}

// New assembles the HTTP router.
func New(p Params) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(p.Logger))
	r.Use(middleware.RequestID(p.Logger))
	r.Use(middleware.Logging(p.Logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(p.Metrics))

	r.Get("/health/live", p.Health.Live)
	r.Get("/health/ready", p.Health.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	loginPolicy := middleware.AuthRateLimitPolicy{
		Scope:      "login",
		Window:     p.Config.AuthRateLimit.LoginWindow,
		IPLimit:    int64(p.Config.AuthRateLimit.LoginIPLimit),
		EmailLimit: int64(p.Config.AuthRateLimit.LoginEmailLimit),
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Encrypted envelopes are accepted on every v1 route, auth included,
		// since the client SDK can encrypt any call it makes.
		r.Use(middleware.PayloadCrypto(p.Codec, p.Logger))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(p.Redis, loginPolicy, p.Logger)).Post("/signup", p.Auth.Signup)
			r.With(middleware.AuthRateLimit(p.Redis, loginPolicy, p.Logger)).Post("/login", p.Auth.Login)
			r.With(middleware.Auth(p.Config.JWT, p.Sessions, p.Logger)).Post("/logout", p.Auth.Logout)
		})

		r.Route("/otp", func(r chi.Router) {
			r.Post("/send", p.OTP.Send)
			r.Post("/verify", p.OTP.Verify)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(p.Config.JWT, p.Sessions, p.Logger))

			r.Get("/products", p.Products.List)
			r.Get("/products/{productID}", p.Products.Get)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", p.Cart.Get)
				r.Delete("/", p.Cart.Clear)
				r.Post("/{productID}", p.Cart.AddItem)
				r.Put("/{productID}", p.Cart.UpdateItem)
				r.Delete("/{productID}", p.Cart.RemoveItem)
			})
		})
	})

	return r
}
