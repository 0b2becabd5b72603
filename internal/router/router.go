package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/heencoffee/pos-api/internal/config"
	"github.com/heencoffee/pos-api/internal/database"
	"github.com/heencoffee/pos-api/internal/enum"
	"github.com/heencoffee/pos-api/internal/handler"
	"github.com/heencoffee/pos-api/internal/logger"
	mw "github.com/heencoffee/pos-api/internal/middleware"
	"github.com/heencoffee/pos-api/internal/service"
	"github.com/heencoffee/pos-api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`)) //nolint:errcheck
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	limiter := mw.NewRateLimiter(cfg.LoginRatePerMinute)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		authHandler.RegisterRoutes(r)
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	newOrderStore := func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}
	orderService := service.NewOrderService(pool, newOrderStore, cfg.ClampDiscount)

	newInventoryStore := func(db database.DBTX) service.InventoryStore {
		return database.New(db)
	}
	inventoryService := service.NewInventoryService(pool, newInventoryStore)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		adminOnly := mw.RequireRole(enum.UserRoleAdmin)

		authHandler.RegisterProtectedRoutes(r)

		userHandler := handler.NewUserHandler(queries)
		r.Route("/users", func(r chi.Router) {
			r.Use(adminOnly)
			userHandler.RegisterRoutes(r)
		})

		categoryHandler := handler.NewCategoryHandler(queries)
		r.Route("/categories", func(r chi.Router) {
			categoryHandler.RegisterRoutes(r)
			r.With(adminOnly).Group(categoryHandler.RegisterAdminRoutes)
		})

		productHandler := handler.NewProductHandler(queries, pool, func(db database.DBTX) handler.ProductStore {
			return database.New(db)
		})
		r.Route("/products", func(r chi.Router) {
			productHandler.RegisterRoutes(r)
			r.With(adminOnly).Group(productHandler.RegisterAdminRoutes)
		})

		toppingHandler := handler.NewToppingHandler(queries)
		r.Route("/toppings", func(r chi.Router) {
			toppingHandler.RegisterRoutes(r)
			r.With(adminOnly).Group(toppingHandler.RegisterAdminRoutes)
		})

		orderHandler := handler.NewOrderHandler(orderService, queries, hub, handler.OrderHandlerOptions{
			StrictTransitions: cfg.StrictStatusTransitions,
			Location:          cfg.Location,
		})
		r.Route("/orders", func(r chi.Router) {
			orderHandler.RegisterRoutes(r)
			r.With(adminOnly).Group(orderHandler.RegisterAdminRoutes)
		})

		inventoryHandler := handler.NewInventoryHandler(queries, inventoryService, hub)
		r.Route("/inventory", func(r chi.Router) {
			inventoryHandler.RegisterRoutes(r)
			r.With(adminOnly).Group(inventoryHandler.RegisterAdminRoutes)
		})

		reportsHandler := handler.NewReportsHandler(queries, cfg.Location)
		r.Route("/reports", func(r chi.Router) {
			reportsHandler.RegisterRoutes(r)
			r.With(adminOnly).Group(reportsHandler.RegisterAdminRoutes)
		})
	})

	log.Debug().Msg("router initialized with all handlers")
	return r
}
