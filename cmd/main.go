package main

import (
	"context"
	"errors"
	"log"
	nethttp "net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sakashimaa/shop-api/internal/infrastructure/email"
	"github.com/sakashimaa/shop-api/internal/repository"
	"github.com/sakashimaa/shop-api/internal/repository/memory"
	"github.com/sakashimaa/shop-api/internal/service"
	"github.com/sakashimaa/shop-api/internal/storage"
	"github.com/sakashimaa/shop-api/internal/transport/http"
	"github.com/sakashimaa/shop-api/internal/transport/http/handler"
	"github.com/sakashimaa/shop-api/internal/transport/http/middleware"
	kafkaTransport "github.com/sakashimaa/shop-api/internal/transport/kafka"
	"github.com/sakashimaa/shop-api/pkg/config"
	"github.com/sakashimaa/shop-api/pkg/db"
	"github.com/sakashimaa/shop-api/pkg/kafka"
	outboxRepository "github.com/sakashimaa/shop-api/pkg/outbox/repository"
	outboxUtils "github.com/sakashimaa/shop-api/pkg/outbox/utils"
	"github.com/sakashimaa/shop-api/pkg/outbox/worker"
	"github.com/sakashimaa/shop-api/pkg/token"
	"github.com/sakashimaa/shop-api/pkg/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const dedupTTL = 7 * 24 * time.Hour

type repositories struct {
	products repository.ProductRepository
	users    repository.UserRepository
	orders   repository.OrderRepository
	outbox   worker.OutboxRepository
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(config.LoggerConfig{
		Level: cfg.LogLevel,
		Env:   cfg.Env,
	})
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	tp, err := utils.InitTracer(ctx, "shop-api", cfg.Tracing.Endpoint, cfg.Env)
	if err != nil {
		logger.Fatal("Failed to init tracer", zap.Error(err))
	}

	var mongoClient *mongo.Client
	var repos repositories

	switch cfg.Storage.Driver {
	case "memory":
		logger.Warn("Using in-memory storage, data is lost on restart")
		repos = repositories{
			products: memory.NewProductRepository(),
			users:    memory.NewUserRepository(),
			orders:   memory.NewOrderRepository(),
			outbox:   outboxRepository.NewMemoryOutboxRepository(),
		}
	default:
		var database *mongo.Database
		mongoClient, database, err = db.NewMongoDB(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Timeout, logger)
		if err != nil {
			logger.Fatal("Failed to connect to mongo", zap.Error(err))
		}

		if err := repository.EnsureIndexes(ctx, database); err != nil {
			logger.Fatal("Failed to create indexes", zap.Error(err))
		}
		if err := outboxRepository.EnsureIndexes(ctx, database); err != nil {
			logger.Fatal("Failed to create outbox indexes", zap.Error(err))
		}

		repos = repositories{
			products: repository.NewProductRepository(database, logger),
			users:    repository.NewUserRepository(database, logger),
			orders:   repository.NewOrderRepository(database, logger),
			outbox:   outboxRepository.NewOutboxRepository(database, logger),
		}
	}

	var wg sync.WaitGroup

	var kafkaProducer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafka.NewProducer(cfg.Kafka.Brokers, logger)
		if err != nil {
			logger.Fatal("Failed to create kafka producer", zap.Error(err))
		}

		processor := worker.NewOutboxProcessor(repos.outbox, kafkaProducer, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			processor.Start(ctx)
		}()
	} else {
		logger.Info("Kafka brokers not configured, domain events disabled")
		repos.outbox = nil
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
	}

	tokens, err := token.NewManager(cfg.Auth.JWTSecret, token.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to create token manager", zap.Error(err))
	}

	validate := utils.NewValidator()

	productService := service.NewProductService(repos.products, repos.outbox, validate, logger)
	if redisClient != nil {
		productService = service.NewCachedProductService(productService, redisClient, cfg.Redis.CacheTTL, logger)
	}
	authService := service.NewAuthService(repos.users, tokens, repos.outbox, validate, logger)
	userService := service.NewUserService(repos.users, validate, logger)
	orderService := service.NewOrderService(repos.orders, repos.outbox, validate, logger)

	if kafkaProducer != nil && redisClient != nil && cfg.Email.SenderEmail != "" {
		sender, err := email.NewSESSender(ctx, cfg.Email, logger)
		if err != nil {
			logger.Fatal("Failed to create email sender", zap.Error(err))
		}

		dedup := outboxUtils.NewRedisDeduplicator(redisClient, dedupTTL, logger)
		notificationService := service.NewNotificationService(sender, dedup, repos.users, logger)
		consumer := kafkaTransport.NewConsumer(notificationService, cfg.Kafka.ConsumerGroup, logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := consumer.Start(ctx, cfg.Kafka.Brokers); err != nil {
				logger.Error("Notification consumer stopped", zap.Error(err))
			}
		}()
	} else {
		logger.Info("Notification consumer disabled (needs kafka, redis and a sender email)")
	}

	var fileStorage storage.Storage
	uploadDir := ""
	switch cfg.Upload.Driver {
	case "s3":
		fileStorage, err = storage.NewS3StorageFromConfig(ctx, cfg.Upload, logger)
	default:
		fileStorage, err = storage.NewLocalStorage(cfg.Upload.Dir, cfg.HTTP.PublicURL, logger)
		uploadDir = cfg.Upload.Dir
	}
	if err != nil {
		logger.Fatal("Failed to init upload storage", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metricsMux := nethttp.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	metricsServer := &nethttp.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("Metrics serving failed", zap.Error(err))
		}
	}()

	httpCfg := http.Config{
		BodyLimit:          cfg.HTTP.BodyLimit,
		Timeout:            cfg.HTTP.Timeout,
		ProtectAdminRoutes: cfg.HTTP.ProtectAdminRoutes,
		UploadDir:          uploadDir,
		LimiterMax:         cfg.Limiter.Max,
		LimiterExpiration:  cfg.Limiter.Expiration,
	}

	app := http.NewApp(httpCfg, middleware.NewMetrics(reg), logger)
	http.RegisterRoutes(app, &http.Handlers{
		Auth:    handler.NewAuthHandler(authService, logger),
		Product: handler.NewProductHandler(productService, logger),
		User:    handler.NewUserHandler(userService, logger),
		Order:   handler.NewOrderHandler(orderService, logger),
		Upload:  handler.NewUploadHandler(fileStorage, logger),
	}, authService, httpCfg, logger)

	go func() {
		logger.Info("HTTP service listening", zap.String("port", cfg.HTTP.Port))
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			logger.Fatal("Error listening on HTTP port", zap.String("port", cfg.HTTP.Port), zap.Error(err))
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP app", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down metrics server", zap.Error(err))
	}

	wg.Wait()

	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("Error closing kafka producer", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Error closing redis client", zap.Error(err))
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Error("Error disconnecting mongo", zap.Error(err))
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down telemetry", zap.Error(err))
	}

	logger.Info("Shop API stopped")
}
