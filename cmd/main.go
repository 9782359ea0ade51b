package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"foodorder/auth"
	"foodorder/config"
	"foodorder/controllers"
	"foodorder/database"
	"foodorder/metrics"
	"foodorder/middleware"
	"foodorder/repository"
	"foodorder/routes"
	"foodorder/services"
	"foodorder/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(config.LoggerConfig{Level: cfg.Log.Level, Env: cfg.Env})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tp, err := tracing.Init(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Env)
	if err != nil {
		logger.Fatal("Failed to init tracer", zap.Error(err))
	}
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	client, err := database.ConnectMongo(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error("Error disconnecting MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Connected to MongoDB", zap.String("db", cfg.Mongo.DBName))

	db := client.Database(cfg.Mongo.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("Failed to create indexes", zap.Error(err))
	}

	// Token revocation checks fail closed, so the service cannot run without redis.
	rdb, err := database.ConnectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing redis client", zap.Error(err))
		}
	}()

	m := metrics.New(prometheus.DefaultRegisterer)

	users := repository.NewUserRepository(db)
	products := repository.NewProductRepository(db)
	orders := repository.NewOrderRepository(db)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := services.NewAuthService(users, tokens, auth.NewRedisBlacklist(rdb), logger)
	productService := services.NewProductService(products, logger)
	orderService := services.NewOrderService(orders, products, m, logger)
	dashboardService := services.NewDashboardService(orders, users, cfg.Dashboard.TopProducts, logger)

	gin.SetMode(cfg.HTTP.GinMode)
	r, err := routes.NewEngine(
		cfg.HTTP.TrustedProxies,
		gin.Recovery(),
		otelgin.Middleware(cfg.Tracing.ServiceName),
		middleware.Logger(logger),
		middleware.Metrics(m),
	)
	if err != nil {
		logger.Fatal("Failed to configure trusted proxies", zap.Error(err))
	}

	lookupLimiter := middleware.NewRedisLimiter(rdb, "token_lookup", cfg.Limiter.TokenLookupLimit, cfg.Limiter.TokenLookupWindow)

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:          controllers.NewAuthController(authService, logger),
		Products:      controllers.NewProductController(productService, logger),
		Orders:        controllers.NewOrderController(orderService, logger),
		Dashboard:     controllers.NewDashboardController(dashboardService, logger),
		Authenticator: authService,
		TokenLookup:   middleware.RateLimit(lookupLimiter, logger),
		Metrics:       metrics.Handler(prometheus.DefaultGatherer),
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
