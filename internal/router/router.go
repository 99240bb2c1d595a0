package router

import (
	"time"

	"paulinepos/internal/config"
	"paulinepos/internal/handler"
	"paulinepos/internal/middleware"
	"paulinepos/internal/repository"
	"paulinepos/internal/service"
	"paulinepos/internal/store"
	"paulinepos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
)

// Deps are the long-lived components built by cmd/server.
type Deps struct {
	Store     *store.Store
	Repo      repository.SnapshotRepository
	Persister *worker.Persister
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Store ← SnapshotRepository
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(d.Store, cfg)
	receiptSvc := service.NewReceiptService(d.Store, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	restaurantsH := handler.NewRestaurantsHandler(d.Store)
	tablesH := handler.NewTablesHandler(d.Store)
	productsH := handler.NewProductsHandler(d.Store)
	ordersH := handler.NewOrdersHandler(d.Store, receiptSvc)
	dashboardH := handler.NewDashboardHandler(d.Store)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.Repo, d.Store, d.Persister))

	hydrated := middleware.RequireHydrated(d.Store)
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)

	// Auth: register/login are public, the rest needs a token
	loginRL := middleware.LoginRateLimiter(10)
	auth := r.Group("/v1/auth", hydrated)
	{
		auth.POST("/register", loginRL, authH.Register)
		auth.POST("/login", loginRL, authH.Login)
		auth.POST("/logout", jwtMW, authH.Logout)
		auth.GET("/me", jwtMW, authH.Me)
		auth.PUT("/me", jwtMW, authH.UpdateProfile)
		auth.PUT("/me/password", jwtMW, authH.ChangePassword)
	}

	// Protected routes
	v1 := r.Group("/v1", jwtMW, hydrated)
	{
		v1.GET("/session/restaurant", restaurantsH.Current)

		rest := v1.Group("/restaurants")
		{
			rest.GET("", restaurantsH.List)
			rest.POST("", restaurantsH.Create)
			rest.GET("/:id", restaurantsH.Get)
			rest.PATCH("/:id", restaurantsH.Update)
			rest.DELETE("/:id", restaurantsH.Delete)
			rest.POST("/:id/select", restaurantsH.Select)

			rest.GET("/:id/tables", tablesH.List)
			rest.POST("/:id/tables", tablesH.Create)
			rest.GET("/:id/products", productsH.List)
			rest.POST("/:id/products", productsH.Create)
			rest.GET("/:id/orders", ordersH.List)
			rest.POST("/:id/orders", ordersH.Create)
			rest.GET("/:id/dashboard", dashboardH.Get)
		}

		tables := v1.Group("/tables")
		{
			tables.GET("/:id", tablesH.Get)
			tables.PATCH("/:id", tablesH.Update)
			tables.DELETE("/:id", tablesH.Delete)
			tables.PUT("/:id/name", tablesH.Rename)
			tables.POST("/:id/occupy", tablesH.Occupy)
			tables.POST("/:id/free", tablesH.Free)
			tables.GET("/:id/active-order", tablesH.ActiveOrder)
		}

		v1.GET("/categories", productsH.Categories)
		v1.GET("/categories/:code/products", productsH.ByCategoryCode)

		products := v1.Group("/products")
		{
			products.GET("/:id", productsH.Get)
			products.PATCH("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.POST("/:id/toggle-availability", productsH.ToggleAvailability)
		}

		orders := v1.Group("/orders")
		{
			orders.GET("/:id", ordersH.Get)
			orders.DELETE("/:id", ordersH.Delete)
			orders.POST("/:id/items", ordersH.AddItem)
			orders.PATCH("/:id/items/:itemId", ordersH.UpdateItemQty)
			orders.DELETE("/:id/items/:itemId", ordersH.RemoveItem)
			orders.POST("/:id/comments", ordersH.AddComment)
			orders.PUT("/:id/status", ordersH.SetStatus)
			orders.POST("/:id/close", ordersH.Close)
			orders.PUT("/:id/paid", ordersH.SetPaid)
			orders.PUT("/:id/expected-at", ordersH.SetExpectedAt)
			orders.PUT("/:id/actor", ordersH.AssignActor)
			orders.PUT("/:id/table", ordersH.Move)
			orders.GET("/:id/receipt", ordersH.Receipt)
		}

		v1.GET("/integrity", dashboardH.Integrity)
	}

	// Swagger UI, outside production only
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
