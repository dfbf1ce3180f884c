package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dotoole/photofolio-backend/api/controllers"
	"github.com/dotoole/photofolio-backend/api/middleware"
	"github.com/dotoole/photofolio-backend/internal/albums"
	"github.com/dotoole/photofolio-backend/internal/auth"
	"github.com/dotoole/photofolio-backend/internal/credentials"
	"github.com/dotoole/photofolio-backend/internal/images"
	"github.com/dotoole/photofolio-backend/internal/profile"
	"github.com/dotoole/photofolio-backend/pkg/config"
	"github.com/dotoole/photofolio-backend/pkg/logger"
	"github.com/dotoole/photofolio-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth        auth.Service
	Images      images.Service
	Albums      albums.Service
	Credentials credentials.Service
	Profile     profile.Service
}

// Dependencies are the pinged backends for readiness plus the rate-limit store.
type Dependencies struct {
	DB    controllers.Pinger
	Redis *redis.Client
	R2    controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies, svcs Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	secureCookie := cfg.App.IsProd()

	loginLimiter := func(next http.Handler) http.Handler { return next }
	if deps.Redis != nil {
		loginPolicy := middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
		)
		loginLimiter = middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.Dependency{Name: "database", Pinger: deps.DB},
			controllers.Dependency{Name: "redis", Pinger: pinger(deps.Redis)},
			controllers.Dependency{Name: "object storage", Pinger: deps.R2},
		))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.With(loginLimiter).Post("/login", controllers.Login(svcs.Auth, secureCookie, logg))
	r.Post("/logout", controllers.Logout(secureCookie))

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads carry optional auth so the console sees unfiltered data
		// through the same endpoints.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/gallery", controllers.Gallery(svcs.Images, svcs.Profile, logg))
			r.Get("/images", controllers.ImagesList(svcs.Images, logg))
			r.Get("/images/{publicId}", controllers.ImageGet(svcs.Images, logg))
			r.Get("/albums/{publicId}", controllers.AlbumPublicView(svcs.Albums, logg))
			r.Get("/profile-image", controllers.ProfileImageGet(svcs.Profile, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWT, logg))

			r.Post("/credentials", controllers.CredentialsIssue(svcs.Credentials, logg))
			r.Post("/images/record", controllers.ImageRecord(svcs.Images, logg))
			r.Patch("/images/{id}", controllers.ImageUpdate(svcs.Images, logg))
			r.Delete("/images/{id}", controllers.ImageDelete(svcs.Images, logg))

			r.Get("/albums", controllers.AlbumsList(svcs.Albums, logg))
			r.Post("/albums", controllers.AlbumCreate(svcs.Albums, logg))
			r.Patch("/albums/{id}", controllers.AlbumUpdate(svcs.Albums, logg))
			r.Delete("/albums/{id}", controllers.AlbumDelete(svcs.Albums, logg))
			r.Post("/albums/assign", controllers.AlbumAssign(svcs.Albums, logg))

			r.Post("/profile-image", controllers.ProfileImageSet(svcs.Profile, logg))
		})
	})

	return r
}

// pinger keeps a nil *redis.Client out of the readiness checks.
func pinger(c *redis.Client) controllers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
