package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/wyfcoding/onlineshop/internal/cart/application"
	"github.com/wyfcoding/onlineshop/internal/cart/infrastructure/session"
	carthttp "github.com/wyfcoding/onlineshop/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/onlineshop/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/onlineshop/internal/catalog/domain"
	"github.com/wyfcoding/onlineshop/internal/catalog/infrastructure/messaging"
	"github.com/wyfcoding/onlineshop/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/onlineshop/internal/catalog/interfaces/http"
	"github.com/wyfcoding/onlineshop/pkg/cache"
	"github.com/wyfcoding/onlineshop/pkg/config"
	"github.com/wyfcoding/onlineshop/pkg/db"
	"github.com/wyfcoding/onlineshop/pkg/logger"
	"github.com/wyfcoding/onlineshop/pkg/metrics"
	"github.com/wyfcoding/onlineshop/pkg/middleware"
	"github.com/wyfcoding/onlineshop/pkg/mq"
)

var configPath = flag.String("config", "configs/shop/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 初始化配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 初始化日志
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	ctx := context.Background()

	// 3. 初始化指标
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		go m.ExposeHTTP(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. 初始化基础设施
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Environment == "dev" {
		if err := database.AutoMigrate(
			&catalogdomain.Manufacturer{},
			&catalogdomain.Category{},
			&catalogdomain.Product{},
			&catalogdomain.ViewCount{},
		); err != nil {
			logger.Error(ctx, "failed to migrate database", "error", err)
		}
	}

	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init redis", "error", err)
	}
	defer redisCache.Close()

	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "failed to init kafka producer", "error", err)
	}
	defer producer.Close()

	// 5. 初始化仓储与事件发布
	productRepo := mysql.NewProductRepository(database.DB)
	categoryRepo := mysql.NewCategoryRepository(database.DB)
	manufacturerRepo := mysql.NewManufacturerRepository(database.DB)
	viewRepo := mysql.NewViewRepository(database.DB)
	publisher := messaging.NewKafkaPublisher(producer)

	// 6. 初始化应用服务
	catalogCommandSvc := catalogapp.NewCatalogCommandService(
		productRepo, categoryRepo, manufacturerRepo, viewRepo, publisher, redisCache)
	catalogQuerySvc := catalogapp.NewCatalogQueryService(
		productRepo, categoryRepo, manufacturerRepo, viewRepo, redisCache)
	catalogService := catalogapp.NewCatalogService(catalogCommandSvc, catalogQuerySvc)

	cartService := cartapp.NewCartService(catalogService, publisher)

	sessionTTL := time.Duration(cfg.Session.TTL) * time.Second
	sessionStore := session.NewStore(redisCache, sessionTTL)

	// 7. 初始化接口层
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
		carthttp.SessionMiddleware(sessionStore, cfg.Session.CookieName, sessionTTL),
	)

	cataloghttp.NewCatalogHandler(catalogService, m).RegisterRoutes(router)
	carthttp.NewCartHandler(cartService, m).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 8. 启动服务
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-quit:
		case <-gctx.Done():
			return gctx.Err()
		}

		logger.Info(gctx, "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal(ctx, "server exited with error", "error", err)
	}
}
