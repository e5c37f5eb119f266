package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Ramsey-B/sorrel/config"
	contactrepo "github.com/Ramsey-B/sorrel/internal/repositories/contact"
	suggestionrepo "github.com/Ramsey-B/sorrel/internal/repositories/suggestion"
	"github.com/Ramsey-B/sorrel/pkg/database"
	"github.com/Ramsey-B/sorrel/pkg/dedupe"
	"github.com/Ramsey-B/sorrel/pkg/events"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/logging"
	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/middleware"
	"github.com/Ramsey-B/sorrel/pkg/processor"
	dedupeR "github.com/Ramsey-B/sorrel/pkg/routes/dedupe"
	"github.com/Ramsey-B/sorrel/pkg/routes/health"
	suggestionR "github.com/Ramsey-B/sorrel/pkg/routes/suggestion"
	"github.com/Ramsey-B/sorrel/pkg/scanner"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

var version = "dev"

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, flush, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("Service exited with error")
		flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger ectologger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp := sdktrace.NewTracerProvider()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()
	otel.SetTracerProvider(tp)
	tracing.SetTracer(tp.Tracer(cfg.AppName))

	db, err := database.Connect(ctx, logger, database.Config{
		Host:            cfg.DatabaseHost,
		Port:            cfg.DatabasePort,
		Username:        cfg.DatabaseUserName,
		Password:        cfg.DatabasePassword,
		Name:            cfg.DatabaseName,
		SSLMode:         cfg.DatabaseSSLMode,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnMaxLifetime,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
	})
	if err := migrations.MigrateDB(cfg.DatabaseName, db); err != nil {
		return err
	}

	dbInstance := database.NewDatabaseInstance(db, logger)
	contactRepo := contactrepo.NewRepository(dbInstance, logger)
	suggestionRepo := suggestionrepo.NewRepository(dbInstance, logger)

	matcherCfg := matching.DefaultConfig()
	matcherCfg.NameWeight = cfg.NameWeight
	matcherCfg.PhoneWeight = cfg.PhoneWeight
	matcherCfg.EmailWeight = cfg.EmailWeight
	matcherCfg.HighConfidence = cfg.HighConfidence
	matcherCfg.MediumConfidence = cfg.MediumConfidence

	engineCfg := dedupe.DefaultConfig()
	engineCfg.PairThreshold = cfg.PairThreshold
	engineCfg.NameScanThreshold = cfg.NameScanThreshold
	engineCfg.PhoneScanThreshold = cfg.PhoneScanThreshold
	engineCfg.EmailScanThreshold = cfg.EmailScanThreshold
	engineCfg.PairWorkers = cfg.PairWorkerCount
	engineCfg.Strategy = dedupe.GroupingStrategy(cfg.GroupingStrategy)

	engine := dedupe.NewEngine(matching.NewMatcher(matcherCfg), engineCfg)

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()

	emitter := events.NewEmitter(producer, logger)

	sc := scanner.NewScanner(logger, engine, contactRepo, suggestionRepo, emitter, scanner.Config{
		BatchSize:          cfg.ScanBatchSize,
		SuggestionsEnabled: cfg.SuggestionsEnabled,
	})

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		proc := processor.NewProcessor(logger, contactRepo, sc)
		consumer = kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers:       cfg.KafkaBrokers,
			Topic:         cfg.KafkaInputTopic,
			ConsumerGroup: cfg.KafkaConsumerGroup,
		}, logger, proc.ProcessMessage)
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := consumer.Stop(); err != nil {
				logger.WithError(err).Error("Failed to stop consumer")
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(
		otelecho.Middleware(cfg.AppName),
		middleware.Context(),
		middleware.Logger(logger),
		echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: cfg.AllowMethods,
		}),
		echomiddleware.Recover(),
	)

	var consumerHealth interface{ Health() bool }
	if consumer != nil {
		consumerHealth = consumer
	}
	checker := health.NewChecker(db, consumerHealth, version)
	checker.RegisterRoutes(e)

	dedupeR.NewHandler(engine, sc, logger).RegisterRoutes(e.Group("/api/v1/dedupe"))
	suggestionR.NewHandler(suggestionRepo, emitter, logger).RegisterRoutes(e.Group("/api/v1/suggestions"))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
		ReadHeaderTimeout: time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(map[string]any{"port": cfg.Port}).Infof("%s listening on :%d", cfg.AppName, cfg.Port)
		if err := e.StartServer(server); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	checker.SetReady(true)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	checker.SetReady(false)
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
