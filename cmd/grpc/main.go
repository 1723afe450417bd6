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

	"github.com/fekuna/omnipos-uniform-service/config"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/broker"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/cache"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/database"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/i18n"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/logger"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/middleware"
	"github.com/fekuna/omnipos-uniform-service/internal/pkg/search"

	garmentH "github.com/fekuna/omnipos-uniform-service/internal/garment/handler"
	garmentRepoPkg "github.com/fekuna/omnipos-uniform-service/internal/garment/repository"
	garmentUCPkg "github.com/fekuna/omnipos-uniform-service/internal/garment/usecase"

	reqH "github.com/fekuna/omnipos-uniform-service/internal/requirement/handler"
	reqRepoPkg "github.com/fekuna/omnipos-uniform-service/internal/requirement/repository"
	reqUCPkg "github.com/fekuna/omnipos-uniform-service/internal/requirement/usecase"

	sessionH "github.com/fekuna/omnipos-uniform-service/internal/session/handler"
	sessionDTO "github.com/fekuna/omnipos-uniform-service/internal/session/dto"
	sessionRepoPkg "github.com/fekuna/omnipos-uniform-service/internal/session/repository"
	sessionUCPkg "github.com/fekuna/omnipos-uniform-service/internal/session/usecase"

	sizeH "github.com/fekuna/omnipos-uniform-service/internal/size/handler"
	sizeRepoPkg "github.com/fekuna/omnipos-uniform-service/internal/size/repository"
	sizeUCPkg "github.com/fekuna/omnipos-uniform-service/internal/size/usecase"

	stockH "github.com/fekuna/omnipos-uniform-service/internal/stock/handler"
	stockListenerPkg "github.com/fekuna/omnipos-uniform-service/internal/stock/listener"
	stockRepoPkg "github.com/fekuna/omnipos-uniform-service/internal/stock/repository"
	stockUCPkg "github.com/fekuna/omnipos-uniform-service/internal/stock/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

// registrar is implemented by every handler; services are registered from a
// hand-built descriptor instead of generated stubs.
type registrar interface {
	ServiceDesc() *grpc.ServiceDesc
}

// requirementCache returns the cache for computed requirements. Only the order
// listener invalidates it, so without Kafka every computation reads the database.
func requirementCache(listenerEnabled bool, c *cache.RedisClient) *cache.RedisClient {
	if !listenerEnabled {
		return nil
	}
	return c
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 1.5 Initialize i18n
	if err := i18n.Init(); err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}
	if path := os.Getenv("I18N_EXTRA_FILE"); path != "" {
		if err := i18n.Load(path); err != nil {
			log.Printf("Failed to load extra locales: %v", err)
		}
	}

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" || cfg.Server.AppEnv == "dev" {
		logConfig.IsDevelopment = true
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.Connect(context.Background(), &database.Config{
		Driver:          cfg.Database.Driver,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to database",
		zap.String("driver", cfg.Database.Driver),
		zap.String("db_name", cfg.Database.DBName),
	)

	// 4. Initialize Repositories
	stockRepo := stockRepoPkg.NewSQLRepository(db)
	reqRepo := reqRepoPkg.NewSQLRepository(db)
	garmentRepo := garmentRepoPkg.NewSQLRepository(db)
	sizeRepo := sizeRepoPkg.NewSQLRepository(db)

	// 5. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	sessionTTL := time.Duration(cfg.Session.TTLSeconds) * time.Second
	sessionRepo := sessionRepoPkg.NewRedisRepository(redisClient, sessionTTL, appLogger)

	// 5.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch, garment search uses the database", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 6. Initialize UseCases
	stockUC := stockUCPkg.NewStockUseCase(stockRepo, appLogger)
	reqUC := reqUCPkg.NewRequirementUseCase(reqRepo, requirementCache(cfg.Kafka.Enabled, redisClient), appLogger)
	garmentUC := garmentUCPkg.NewGarmentUseCase(garmentRepo, redisClient, esClient, appLogger)
	sizeUC := sizeUCPkg.NewSizeUseCase(sizeRepo, appLogger)
	sessionUC := sessionUCPkg.NewSessionUseCase(sessionRepo, sessionDTO.Defaults{
		Theme:  cfg.Session.DefaultTheme,
		Locale: cfg.Server.DefaultLocale,
	}, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6.5 Initialize Listeners
	if cfg.Kafka.Enabled {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		stockListener := stockListenerPkg.NewStockListener(kafkaConsumer, stockUC, reqUC, appLogger)
		go stockListener.Start(ctx)
	}

	// 7. Initialize Handlers
	handlers := []registrar{
		stockH.NewStockHandler(stockUC, appLogger),
		reqH.NewRequirementHandler(reqUC, appLogger),
		garmentH.NewGarmentHandler(garmentUC, appLogger),
		sizeH.NewSizeHandler(sizeUC, appLogger),
		sessionH.NewSessionHandler(sessionUC, appLogger),
	}

	// 8. Start gRPC Server
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
			middleware.LoggingInterceptor(appLogger),
			middleware.ContextInterceptor(sessionUC, appLogger),
		),
	)

	for _, h := range handlers {
		grpcServer.RegisterService(h.ServiceDesc(), h)
	}

	reflection.Register(grpcServer)

	appLogger.Info("Starting gRPC server", zap.String("port", port))

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	cancel()
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}
