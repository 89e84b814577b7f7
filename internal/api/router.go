package api

import (
	"net/http"

	"github.com/deskbook/deskbook/internal/api/handler"
	customMiddleware "github.com/deskbook/deskbook/internal/api/middleware"
	"github.com/deskbook/deskbook/internal/config"
	"github.com/deskbook/deskbook/internal/repository/postgres"
	"github.com/deskbook/deskbook/internal/repository/redis"
	"github.com/deskbook/deskbook/internal/security"
	"github.com/deskbook/deskbook/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)

	// Initialize rate limiter and catalog cache
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	catalogCache := redis.NewCatalogCache(redisClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	bookingService := service.NewBookingService(reservationRepo, reservationRepo)
	catalogService := service.NewCatalogService(workspaceRepo, reservationRepo, catalogCache)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	workspaceHandler := handler.NewWorkspaceHandler(catalogService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			// Reservation routes
			r.Route("/reservations", func(r chi.Router) {
				r.Get("/", bookingHandler.List)
				r.Post("/", bookingHandler.Create)

				r.Route("/{reservationID}", func(r chi.Router) {
					r.Get("/", bookingHandler.Get)
					r.Patch("/", bookingHandler.Update)
					r.Delete("/", bookingHandler.Delete)
					r.Post("/cancel", bookingHandler.Cancel)
				})
			})

			// Workspace catalog routes
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Get("/available", workspaceHandler.ListAvailable)
				r.Get("/{workspaceID}", workspaceHandler.Get)
			})

			// Floor-plan view
			r.Get("/floorplan", workspaceHandler.FloorPlan)

			// Catalog administration
			r.Route("/admin/workspaces", func(r chi.Router) {
				r.Use(customMiddleware.RequireAdmin)

				r.Post("/", workspaceHandler.Create)
				r.Patch("/{workspaceID}", workspaceHandler.Update)
			})
		})
	})

	return r
}
