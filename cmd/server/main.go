package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"

	todov1 "github.com/dmehra2102/todotracker/api/todo/v1"
	"github.com/dmehra2102/todotracker/internal/app"
	"github.com/dmehra2102/todotracker/internal/domain"
	"github.com/dmehra2102/todotracker/internal/httpapi"
	"github.com/dmehra2102/todotracker/internal/infrastructure/config"
	"github.com/dmehra2102/todotracker/internal/infrastructure/memory"
	infrapostgres "github.com/dmehra2102/todotracker/internal/infrastructure/postgres"
	"github.com/dmehra2102/todotracker/internal/interceptors"
	"github.com/dmehra2102/todotracker/internal/stats"
)

const (
	serviceName    = "todo-service"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	obs := cfg.GetObservabilityConfig()
	logger, err := initLogger(obs.LogLevel, obs.LogFormat, cfg.IsDevelopment())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting todo service",
		zap.String("version", serviceVersion),
		zap.String("environment", cfg.Environment),
		zap.String("store", cfg.StoreBackend),
	)

	if obs.EnableTracing {
		shutdown, err := initTracer(obs.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, healthCheck, closeStore, err := initStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer closeStore()

	q := cfg.GetQueryConfig()
	aggregator := stats.NewAggregator(repo, q.StatsBatchSize, logger)
	tasks := app.NewTaskService(repo, aggregator, logger, app.WithPageSizes(q.DefaultPageSize, q.MaxPageSize))

	srvCfg := cfg.GetServerConfig()

	grpcServer := initGRPCServer(srvCfg, logger)
	todov1.RegisterTodoServiceServer(grpcServer, app.NewTodoServiceServer(tasks, logger))

	if srvCfg.EnableHealthCheck {
		healthServer := health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus(todov1.TodoService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", srvCfg.Port))
	if err != nil {
		logger.Fatal("Failed to listen", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%d", srvCfg.HTTPPort),
		Handler: httpapi.NewRouter(tasks, logger, httpapi.Options{
			AllowedOrigins: srvCfg.CORSAllowedOrigins,
			RequestTimeout: srvCfg.RequestTimeout,
			HealthCheck:    healthCheck,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsServer *http.Server
	if obs.EnableMetrics {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", srvCfg.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	go func() {
		logger.Info("gRPC server starting", zap.Int("port", srvCfg.Port))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("Failed to serve gRPC", zap.Error(err))
		}
	}()

	go func() {
		logger.Info("HTTP server starting", zap.Int("port", srvCfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info("Metrics server starting", zap.Int("port", srvCfg.MetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("Failed to serve metrics", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown incomplete", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics server shutdown incomplete", zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Server stopped gracefully")
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout exceeded, forcing stop")
		grpcServer.Stop()
	}
}

func initLogger(level, format string, development bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	if format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Development = development

	return zcfg.Build(zap.Fields(zap.String("service", serviceName)))
}

func initTracer(endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		)),
	)

	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// initStore returns the configured repository, a readiness check for the
// HTTP health endpoint and a close func.
func initStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Repository, func(context.Context) error, func(), error) {
	if cfg.StoreBackend == config.StoreMemory {
		logger.Info("Using in-memory task store")
		return memory.NewTaskRepository(), nil, func() {}, nil
	}

	dbCfg := cfg.GetDatabaseConfig()
	db, err := infrapostgres.Open(ctx, dbCfg.URL, infrapostgres.PoolConfig{
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnMaxLifetime,
		ConnMaxIdleTime: dbCfg.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	if err := infrapostgres.RunMigrations(dbCfg.URL, dbCfg.MigrationsPath); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	logger.Info("Database migrations applied", zap.String("path", dbCfg.MigrationsPath))

	repo := infrapostgres.NewTaskRepository(db, dbCfg.Timeout)
	return repo, repo.Ping, func() { db.Close() }, nil
}

func initGRPCServer(cfg config.ServerConfig, logger *zap.Logger) *grpc.Server {
	opts := []grpc.ServerOption{
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle:     15 * time.Minute,
			MaxConnectionAge:      30 * time.Minute,
			MaxConnectionAgeGrace: 5 * time.Minute,
			Time:                  5 * time.Minute,
			Timeout:               1 * time.Minute,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             1 * time.Minute,
			PermitWithoutStream: true,
		}),

		grpc.MaxRecvMsgSize(4 * 1024 * 1024),
		grpc.MaxSendMsgSize(4 * 1024 * 1024),

		grpc.StatsHandler(otelgrpc.NewServerHandler()),

		grpc.ChainUnaryInterceptor(
			interceptors.RecoveryInterceptor(logger),
			interceptors.LoggingInterceptor(logger),
			interceptors.MetricsInterceptor(),
			interceptors.TimeoutInterceptor(cfg.RequestTimeout),
		),
	}

	if cfg.TLSEnabled {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			logger.Fatal("Failed to load TLS credentials", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	}

	return grpc.NewServer(opts...)
}
