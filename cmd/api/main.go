package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/classwish/classwish-backend/api/routes"
	"github.com/classwish/classwish-backend/internal/auth"
	"github.com/classwish/classwish-backend/internal/categories"
	"github.com/classwish/classwish-backend/internal/donors"
	"github.com/classwish/classwish-backend/internal/profiles"
	"github.com/classwish/classwish-backend/internal/projects"
	"github.com/classwish/classwish-backend/internal/wishlist"
	"github.com/classwish/classwish-backend/pkg/auth/session"
	"github.com/classwish/classwish-backend/pkg/config"
	"github.com/classwish/classwish-backend/pkg/db"
	"github.com/classwish/classwish-backend/pkg/logger"
	"github.com/classwish/classwish-backend/pkg/metrics"
	"github.com/classwish/classwish-backend/pkg/migrate"
	"github.com/classwish/classwish-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	platformMetrics := metrics.NewPlatformMetrics(prometheus.DefaultRegisterer)

	profileRepo := profiles.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		ProfileRepo:    profileRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	adminRegisterService, err := auth.NewAdminRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin register service", err)
		os.Exit(1)
	}

	teacherAdminService, err := profiles.NewTeacherAdminService(profileRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create teacher admin service", err)
		os.Exit(1)
	}

	donorService, err := donors.NewService(donors.ServiceParams{
		Store:    profileRepo,
		Cache:    redisClient,
		Logger:   logg,
		Metrics:  platformMetrics,
		CacheTTL: cfg.Donor.CacheTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create donor service", err)
		os.Exit(1)
	}

	projectService, err := projects.NewService(projects.ServiceParams{
		Repo:     projects.NewRepository(dbClient.DB()),
		Teachers: profileRepo,
		Logger:   logg,
		Metrics:  platformMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create project service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:     wishlist.NewRepository(dbClient.DB()),
		Donors:   donorService,
		Projects: projects.NewRepository(dbClient.DB()),
		Logger:   logg,
		Metrics:  platformMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	categoryRepo := categories.NewRepository(dbClient.DB())

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			SessionManager:  sessionManager,
			AuthService:     authService,
			RegisterService: registerService,
			AdminRegister:   adminRegisterService,
			TeacherAdmin:    teacherAdminService,
			DonorService:    donorService,
			ProjectService:  projectService,
			WishlistService: wishlistService,
			Categories:      categoryRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
