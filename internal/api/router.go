package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/handcrafted-haven/marketplace/docs"
	"github.com/handcrafted-haven/marketplace/internal/api/handler"
	"github.com/handcrafted-haven/marketplace/internal/api/middleware"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/http/handlers"
)

// Services are the use cases the HTTP surface exposes.
type Services struct {
	Auth     ports.AuthService
	Products ports.ProductService
	Reviews  ports.ReviewService
	Sellers  ports.SellerService
	Stories  ports.StoryService
}

// Options carries transport settings that are not use cases.
type Options struct {
	CookieSecure bool
	// Readiness is optional; without it /health/ready is not registered.
	Readiness *handlers.HealthDependenciesHandler
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddleware("marketplace"))
	e.Use(middleware.ReadIdentity(svc.Auth))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth, handler.CookieOptions{Secure: opts.CookieSecure})
	productHandler := handler.NewProductHandler(svc.Products)
	reviewHandler := handler.NewReviewHandler(svc.Reviews)
	sellerHandler := handler.NewSellerHandler(svc.Sellers)
	storyHandler := handler.NewStoryHandler(svc.Stories)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)

	v1 := e.Group("/v1")
	v1.GET("/me", authHandler.Me, middleware.RequireIdentity())

	// Mutations are not guarded here: the authorizer decides, so denials are
	// counted and reported the same way on every path.
	v1.GET("/products", productHandler.List)
	v1.POST("/products", productHandler.Create)
	v1.GET("/products/:id", productHandler.Get)
	v1.PUT("/products/:id", productHandler.Update)
	v1.DELETE("/products/:id", productHandler.Delete)
	v1.GET("/products/:id/reviews", reviewHandler.ListForProduct)
	v1.POST("/products/:id/reviews", reviewHandler.Create)

	v1.GET("/reviews", reviewHandler.List)

	v1.GET("/sellers", sellerHandler.List)
	v1.GET("/sellers/:id", sellerHandler.Get)
	v1.GET("/sellers/:id/products", productHandler.BySeller)
	v1.GET("/sellers/:id/stories", storyHandler.BySeller)
	v1.GET("/sellers/:id/stories/latest", storyHandler.Latest)

	v1.POST("/stories", storyHandler.Create)
	v1.PUT("/stories/:id", storyHandler.Update)
	v1.DELETE("/stories/:id", storyHandler.Delete)

	dashboard := v1.Group("/dashboard", middleware.RequireRole(domain.RoleArtisan))
	dashboard.GET("/products", productHandler.Mine)

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if opts.Readiness != nil {
		e.GET("/health/ready", opts.Readiness.Readiness)
	}
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one access line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
