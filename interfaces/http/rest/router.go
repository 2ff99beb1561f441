// Package rest assembles the HTTP API: middleware chain, public catalog
// and content routes, and the permission-gated CMS surface.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"coursehub-backend/infrastructure/config"
	"coursehub-backend/interfaces/http/rest/handlers"
	"coursehub-backend/interfaces/http/rest/middleware"
	"coursehub-backend/pkg/auth"
	"coursehub-backend/pkg/common"
	"coursehub-backend/pkg/observability"
)

// Handlers bundles every endpoint group the router mounts
type Handlers struct {
	Content  *handlers.ContentHandler
	Course   *handlers.CourseHandler
	Module   *handlers.ModuleHandler
	Lesson   *handlers.LessonHandler
	Session  *handlers.SessionHandler
	Media    *handlers.MediaHandler
	Progress *handlers.ProgressHandler
	Auth     *handlers.AuthHandler
}

// NewRouter builds the chi router with the full middleware chain
func NewRouter(
	cfg *config.Config,
	h Handlers,
	authn *middleware.Authenticator,
	metrics *observability.Metrics,
	registry *prometheus.Registry,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	if cfg.EnableMetrics {
		r.Use(middleware.Metrics(metrics))
	}
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", func(w http.ResponseWriter, _ *http.Request) {
		common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	if cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	signInLimiter := auth.NewIPRateLimiter(10)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimitByIP(signInLimiter))
				r.Post("/signup", h.Auth.SignUp)
				r.Post("/signin", h.Auth.SignIn)
			})
			r.Post("/signout", h.Auth.SignOut)
			r.With(authn.Middleware).Get("/me", h.Auth.Me)
		})

		// Static lesson content, public and placeholder-safe
		r.Get("/content/*", h.Content.Fetch)

		// Catalog reads. Public by default; include_unpublished=true
		// requires the content-management permission, which the handlers
		// enforce, so auth here is optional rather than required.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth(authn))
			r.Get("/courses", h.Course.List)
			r.Get("/courses/{id}", h.Course.Get)
			r.Get("/courses/{courseID}/modules", h.Module.ListByCourse)
			r.Get("/modules/{id}", h.Module.Get)
			r.Get("/modules/{moduleID}/lessons", h.Lesson.ListByModule)
			r.Get("/lessons/{id}", h.Lesson.Get)
		})

		// Progress, scoped to the authenticated caller
		r.Route("/progress", func(r chi.Router) {
			r.Use(authn.Middleware)
			r.Get("/", h.Progress.List)
			r.Post("/complete", h.Progress.Complete)
			r.Post("/time", h.Progress.AddTime)
		})

		// CMS writes, permission-gated
		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)
			r.Use(middleware.RequirePermission(auth.PermManageContent))

			r.Post("/courses", h.Course.Create)
			r.Put("/courses/{id}", h.Course.Update)
			r.Delete("/courses/{id}", h.Course.Delete)

			r.Post("/modules", h.Module.Create)
			r.Put("/modules/{id}", h.Module.Update)
			r.Patch("/modules/{id}/order", h.Module.Reorder)
			r.Delete("/modules/{id}", h.Module.Delete)

			r.Post("/lessons", h.Lesson.Create)
			r.Put("/lessons/{id}", h.Lesson.Update)
			r.Patch("/lessons/{id}/order", h.Lesson.Reorder)
			r.Delete("/lessons/{id}", h.Lesson.Delete)
			r.Get("/lessons/{id}/versions", h.Lesson.ListVersions)
			r.Get("/lessons/{id}/versions/{number}", h.Lesson.GetVersion)
			r.Post("/lessons/{id}/versions/{number}/restore", h.Lesson.RestoreVersion)

			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", h.Session.Open)
				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/", h.Session.Get)
					r.Patch("/field", h.Session.UpdateField)
					r.Get("/validate", h.Session.Validate)
					r.Get("/publish-report", h.Session.PublishReport)
					r.Post("/save", h.Session.Save)
					r.Post("/publish", h.Session.Publish)
					r.Post("/schedule", h.Session.Schedule)
					r.Delete("/content", h.Session.DeleteContent)
					r.Get("/versions", h.Session.ListVersions)
					r.Post("/versions/{number}/restore", h.Session.RestoreVersion)
					r.Delete("/", h.Session.Close)
				})
			})

			r.Route("/media", func(r chi.Router) {
				r.Post("/", h.Media.Upload)
				r.Get("/", h.Media.List)
				r.Get("/{id}", h.Media.Get)
				r.Patch("/{id}", h.Media.UpdateMetadata)
				r.Delete("/{id}", h.Media.Delete)
			})

			r.Get("/cache/stats", h.Content.CacheStats)
		})
	})

	return r
}

// optionalAuth resolves a bearer token when present but lets anonymous
// requests through. The catalog handlers decide what anonymous callers
// may see.
func optionalAuth(authn *middleware.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			authn.Middleware(next).ServeHTTP(w, r)
		})
	}
}
