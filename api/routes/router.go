package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classwish/classwish-backend/api/controllers"
	"github.com/classwish/classwish-backend/api/middleware"
	"github.com/classwish/classwish-backend/internal/auth"
	"github.com/classwish/classwish-backend/internal/categories"
	"github.com/classwish/classwish-backend/internal/donors"
	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/internal/projects"
	"github.com/classwish/classwish-backend/internal/wishlist"
	"github.com/classwish/classwish-backend/pkg/auth/session"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/logger"
	"github.com/classwish/classwish-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

type categoryLister interface {
	List(ctx context.Context) ([]categories.CategoryDTO, error)
}

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              pinger
	Redis           *redis.Client
	SessionManager  sessionManager
	AuthService     auth.Service
	RegisterService auth.RegisterService
	AdminRegister   auth.AdminRegisterService
	TeacherAdmin    profiles.TeacherAdminService
	DonorService    donors.Service
	ProjectService  projects.Service
	WishlistService wishlist.Service
	Categories      categoryLister
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
		r.Route("/v1/projects", func(r chi.Router) {
			r.Get("/", controllers.PublicProjectsList(p.ProjectService, logg))
			r.Get("/{projectId}", controllers.PublicProjectDetail(p.ProjectService, logg))
		})
		r.Get("/v1/categories", controllers.PublicCategories(p.Categories, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(p.AdminRegister, p.AuthService, cfg, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AdminAuthLogin(p.AuthService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Get("/ping", controllers.PrivatePing())

		r.Route("/v1/teacher", func(r chi.Router) {
			r.Use(middleware.RequireRole("teacher", logg))
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", controllers.TeacherListProjects(p.ProjectService, logg))
				r.Post("/", controllers.TeacherCreateProject(p.ProjectService, logg))
				r.Patch("/{projectId}", controllers.TeacherUpdateProject(p.ProjectService, logg))
				r.Post("/{projectId}/submit", controllers.TeacherSubmitProject(p.ProjectService, logg))
				r.Post("/{projectId}/reset", controllers.TeacherResetProject(p.ProjectService, logg))
			})
		})

		r.Route("/v1/donor", func(r chi.Router) {
			r.Use(middleware.RequireRole("donor", logg))
			r.Get("/me", controllers.DonorMe(p.DonorService, logg))
			r.Patch("/me/preferences", controllers.DonorUpdatePreferences(p.DonorService, logg))
			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", controllers.WishlistList(p.WishlistService, logg))
				r.Get("/ids", controllers.WishlistIDs(p.WishlistService, logg))
				r.Post("/toggle", controllers.WishlistToggle(p.WishlistService, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireRole("admin", logg))
		r.Route("/v1/projects", func(r chi.Router) {
			r.Get("/review-queue", controllers.AdminReviewQueue(p.ProjectService, logg))
			r.Post("/{projectId}/approve", controllers.AdminApproveProject(p.ProjectService, logg))
			r.Post("/{projectId}/request-revision", controllers.AdminRequestRevision(p.ProjectService, logg))
			r.Post("/{projectId}/deny", controllers.AdminDenyProject(p.ProjectService, logg))
			r.Post("/{projectId}/submit", controllers.TeacherSubmitProject(p.ProjectService, logg))
			r.Post("/{projectId}/mark-funded", controllers.AdminMarkFunded(p.ProjectService, logg))
			r.Post("/{projectId}/complete", controllers.AdminCompleteProject(p.ProjectService, logg))
		})
		r.Put("/v1/teachers/{teacherId}/status", controllers.AdminSetTeacherStatus(p.TeacherAdmin, logg))
	})

	return r
}
