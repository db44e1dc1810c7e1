package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bibbank/fraud-predictor/internal/application/dto"
	"github.com/bibbank/fraud-predictor/internal/application/usecase"
	"github.com/bibbank/fraud-predictor/internal/domain/service"
	"github.com/bibbank/fraud-predictor/internal/infrastructure/config"
	"github.com/bibbank/fraud-predictor/internal/infrastructure/ml"
	"github.com/bibbank/fraud-predictor/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/fraud-predictor/internal/presentation/grpc"
	"github.com/bibbank/fraud-predictor/internal/presentation/rest"
	"github.com/bibbank/fraud-predictor/pkg/observability"
)

const serviceName = "fraud-predictor"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting fraud-predictor",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"artifact", cfg.ArtifactPath,
	)

	// Initialize tracing.
	if cfg.TracingEnabled() {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: serviceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    true,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	// Initialize metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer meterProvider.Shutdown(context.Background())

	predictionMetrics, err := telemetry.NewPredictionMetrics(meterProvider)
	if err != nil {
		logger.Error("failed to register prediction metrics", "error", err)
		os.Exit(1)
	}

	// Load the classifier once, before serving.
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.ArtifactLoadTimeout)
	classifier, err := ml.LoadClassifier(loadCtx, cfg.ArtifactPath, logger)
	loadCancel()
	if err != nil {
		logger.Error("failed to load classifier artifact", "path", cfg.ArtifactPath, "error", err)
		os.Exit(1)
	}

	// Wire domain services.
	deriver := service.NewFeatureDeriver()
	validator := dto.NewValidator()

	// Wire use cases.
	predictFraudUC := usecase.NewPredictFraud(deriver, classifier, predictionMetrics, validator)
	deriveFeaturesUC := usecase.NewDeriveFeatures(deriver, validator)

	// gRPC server.
	grpcHandler := grpcpresentation.NewFraudPredictorHandler(predictFraudUC, deriveFeaturesUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
		Reflection:  cfg.GRPCReflection,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		os.Exit(1)
	}

	// HTTP server (form, JSON API, health checks, metrics).
	router := rest.NewRouter(rest.RouterConfig{
		Form:       rest.NewFormHandler(predictFraudUC, logger),
		Prediction: rest.NewPredictionHandler(predictFraudUC, deriveFeaturesUC, logger),
		Health:     rest.NewHealthHandler(serviceName, classifier, logger),
		Metrics:    metricsHandler,
		Limiter:    rest.NewRateLimiter(cfg.RateLimit),
		Logger:     logger,
	})

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("fraud-predictor started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"model_version", classifier.Version(),
		"model_kind", classifier.Kind(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down fraud-predictor")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("fraud-predictor stopped")
}

