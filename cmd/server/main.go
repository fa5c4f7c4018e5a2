// @title           Handcrafted Haven API
// @version         1.0
// @description     Marketplace for artisans: catalogue, reviews, seller stories.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the session token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/handcrafted-haven/marketplace/internal/api"
	"github.com/handcrafted-haven/marketplace/internal/core/service"
	"github.com/handcrafted-haven/marketplace/internal/core/validation"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/db/mongo"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/db/postgres"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/db/redis"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/http/handlers"
	"github.com/handcrafted-haven/marketplace/internal/infrastructure/queue"
	"github.com/handcrafted-haven/marketplace/internal/pkg/config"
	"github.com/handcrafted-haven/marketplace/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Missing .env is fine: production reads the real environment.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	pool, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "marketplace"})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()

	log.Info().Msg("stores connected")

	// --- Repositories ---
	users := postgres.NewUserRepository(pool)
	sellers := postgres.NewSellerRepository(pool)
	products := postgres.NewProductRepository(pool)
	reviews := postgres.NewReviewRepository(pool)
	stories := postgres.NewStoryRepository(pool)
	owners := postgres.NewOwnerLookup(pool)

	auditRepo := mongo.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("audit indexes")
	}

	// --- Audit fan-out ---
	auditService := service.NewAuditService(auditRepo, logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, logger.Component("dispatcher"))
	dispatcher.Start(context.Background())

	// --- Services ---
	pipe := &service.Pipeline{
		Authorizer: service.NewAuthorizer(owners),
		Validator:  validation.New(),
		Executor:   service.NewExecutor(owners, dispatcher, logger.Component("executor")),
	}

	authService := service.NewAuthService(
		users,
		service.Dashboard{Products: products, Stories: stories, Reviews: reviews, Featured: products},
		redis.NewSessionStore(rdb),
		cfg.Session.Secret, cfg.Session.TTL,
		logger.Component("auth"),
	)

	services := api.Services{
		Auth:     authService,
		Products: service.NewProductService(products, reviews, pipe, cfg.Paging.Products, logger.Component("products")),
		Reviews:  service.NewReviewService(reviews, redis.NewReviewDedup(rdb, cfg.Audit.ReviewDedupWindow), pipe, cfg.Paging.Reviews, logger.Component("reviews")),
		Sellers:  service.NewSellerService(sellers, products, stories, cfg.Paging.Sellers),
		Stories:  service.NewStoryService(stories, pipe, cfg.Paging.Stories),
	}

	e := api.NewRouter(services, api.Options{
		CookieSecure: cfg.Session.CookieSecure,
		Readiness:    handlers.NewHealthDependenciesHandler(pool, mongoDB, rdb),
		Log:          log,
	})

	// CORS wraps the whole echo handler so pre-flight requests never reach routing.
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(e),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Requests are drained; flush queued audit events before closing the stores.
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelDrain()
	if err := dispatcher.Stop(drainCtx); err != nil {
		log.Warn().Err(err).Msg("audit drain cut short")
	}
	log.Info().Msg("stopped")
}
