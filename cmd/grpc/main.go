package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/printfarm-inventory-service/config"
	"github.com/fekuna/printfarm-inventory-service/internal/lifecycle"
	"github.com/fekuna/printfarm-inventory-service/internal/notification"
	"github.com/fekuna/printfarm-inventory-service/internal/scheduler"
	"github.com/fekuna/printfarm-inventory-service/internal/schema"
	"github.com/fekuna/printfarm-inventory-service/pkg/broker"
	"github.com/fekuna/printfarm-inventory-service/pkg/cache"
	"github.com/fekuna/printfarm-inventory-service/pkg/database"
	"github.com/fekuna/printfarm-inventory-service/pkg/logger"
	"github.com/fekuna/printfarm-inventory-service/pkg/middleware"
	"github.com/fekuna/printfarm-inventory-service/pkg/search"

	invH "github.com/fekuna/printfarm-inventory-service/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/printfarm-inventory-service/internal/inventory/repository"
	invUCPkg "github.com/fekuna/printfarm-inventory-service/internal/inventory/usecase"

	orderH "github.com/fekuna/printfarm-inventory-service/internal/order/handler"
	orderRepoPkg "github.com/fekuna/printfarm-inventory-service/internal/order/repository"
	orderUCPkg "github.com/fekuna/printfarm-inventory-service/internal/order/usecase"

	jobH "github.com/fekuna/printfarm-inventory-service/internal/printjob/handler"
	jobRepoPkg "github.com/fekuna/printfarm-inventory-service/internal/printjob/repository"
	jobUCPkg "github.com/fekuna/printfarm-inventory-service/internal/printjob/usecase"

	prodH "github.com/fekuna/printfarm-inventory-service/internal/product/handler"
	prodRepoPkg "github.com/fekuna/printfarm-inventory-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/printfarm-inventory-service/internal/product/usecase"

	projH "github.com/fekuna/printfarm-inventory-service/internal/project/handler"
	projRepoPkg "github.com/fekuna/printfarm-inventory-service/internal/project/repository"
	projUCPkg "github.com/fekuna/printfarm-inventory-service/internal/project/usecase"

	setH "github.com/fekuna/printfarm-inventory-service/internal/settings/handler"
	setRepoPkg "github.com/fekuna/printfarm-inventory-service/internal/settings/repository"
	setUCPkg "github.com/fekuna/printfarm-inventory-service/internal/settings/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database and migrate
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database", zap.String("driver", db.Dialect.Name))

	if err := schema.Migrate(context.Background(), db); err != nil {
		appLogger.Fatal("Could not migrate database", zap.Error(err))
	}

	// 4. Initialize Repositories
	setRepo := setRepoPkg.NewSQLRepository(db)
	invRepo := invRepoPkg.NewSQLRepository(db)
	projRepo := projRepoPkg.NewSQLRepository(db)
	jobRepo := jobRepoPkg.NewSQLRepository(db)
	orderRepo := orderRepoPkg.NewSQLRepository(db)
	prodRepo := prodRepoPkg.NewSQLRepository(db)

	// 5. Optional backends
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, caching disabled", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	var esClient *search.Client
	if cfg.Elastic.Enabled {
		esClient, err = search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Elasticsearch, search falls back to SQL", zap.Error(err))
			esClient = nil
		} else {
			appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. Notifications: through Kafka when enabled, straight to the webhook otherwise
	webhookTimeout := time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second
	webhook := notification.NewWebhookSender(setRepo, webhookTimeout, appLogger)
	var publisher notification.Publisher = webhook
	if cfg.Kafka.Enabled {
		kafkaCfg := &broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}
		producer := broker.NewProducer(kafkaCfg)
		defer producer.Close()
		consumer := broker.NewConsumer(kafkaCfg)
		defer consumer.Close()

		publisher = notification.NewKafkaPublisher(producer)
		go notification.NewListener(consumer, webhook, appLogger).Start(ctx)
		appLogger.Info("Notifications routed through Kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	dispatcher := notification.NewDispatcher(publisher, webhookTimeout, appLogger)

	// 7. Initialize UseCases
	engine := lifecycle.NewEngine(invRepo, appLogger)
	post := lifecycle.NewPostCommit(invRepo, redisClient, dispatcher, appLogger)

	setUC := setUCPkg.NewSettingsUseCase(setRepo, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(db, invRepo, setRepo, engine, post, redisClient, esClient, appLogger)
	projUC := projUCPkg.NewProjectUseCase(db, projRepo, invRepo, appLogger)
	jobUC := jobUCPkg.NewPrintJobUseCase(db, jobRepo, invRepo, projRepo, setRepo, engine, post, appLogger)
	orderUC := orderUCPkg.NewOrderUseCase(db, orderRepo, jobRepo, invRepo, projRepo, setRepo, engine, post, redisClient, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(db, prodRepo, jobRepo, orderRepo, invRepo, projRepo, setRepo, engine, post, appLogger)

	// 8. Background jobs
	go scheduler.New(orderUC, cfg.Scheduler.OrderCheckHour, cfg.Scheduler.OrderCheckMinute, appLogger).Start(ctx)

	// 9. Start gRPC Server
	port := cfg.Server.GRPCPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	lis, err := net.Listen("tcp", port)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(appLogger),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	grpcServer.RegisterService(&invH.ServiceDesc, invH.NewInventoryHandler(invUC, appLogger))
	grpcServer.RegisterService(&jobH.ServiceDesc, jobH.NewPrintJobHandler(jobUC, appLogger))
	grpcServer.RegisterService(&orderH.ServiceDesc, orderH.NewOrderHandler(orderUC, appLogger))
	grpcServer.RegisterService(&prodH.ServiceDesc, prodH.NewProductHandler(prodUC, appLogger))
	grpcServer.RegisterService(&projH.ServiceDesc, projH.NewProjectHandler(projUC, appLogger))
	grpcServer.RegisterService(&setH.ServiceDesc, setH.NewSettingsHandler(setUC, appLogger))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	// Graceful Shutdown
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	healthServer.Shutdown()
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
