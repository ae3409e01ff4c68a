package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/cache"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/config"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/custody"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/grpcserver"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/kafka"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/logger"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository/postgresql"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/server"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/telemetry"
	"gitlab.ozon.dev/pupkingeorgij/custody/migrations"
)

func main() {
	if err := run(); err != nil {
		zap.L().Error("custody service stopped with error", zap.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bootLogger := logger.New("info")
	cfg, err := config.Load(bootLogger)
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	shutdownTelemetry := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "custody",
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	}, log)
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	if err := db.Migrate(cfg.DB.DSN(), migrations.FS); err != nil {
		return err
	}
	log.Info("migrations applied")

	database, err := db.NewDb(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer database.Close()

	deviceRepo := postgresql.NewDeviceRepo(database)
	userRepo := postgresql.NewUserRepo(database)
	requestRepo := postgresql.NewRequestRepo(database)
	orderRepo := postgresql.NewKeeperOrderRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo(database)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := userRepo.CreateUser(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
		log.Info("admin user ensured", zap.String("username", cfg.AdminUsername))
	}

	chains := cache.NewChainCache(orderRepo, deviceRepo, log.Named("chain-cache"))
	if err := chains.LoadInitialData(ctx); err != nil {
		return err
	}

	policy, err := custody.PolicyByName(cfg.ApprovalPolicy)
	if err != nil {
		return err
	}

	service := custody.NewService(database, custody.Repositories{
		Devices:  deviceRepo,
		Users:    userRepo,
		Requests: requestRepo,
		Orders:   orderRepo,
		Outbox:   outboxRepo,
	}, policy, chains, log.Named("custody"))
	service.SetEventsTopic(cfg.EventsTopic)

	var producer kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewWriterProducer(cfg.KafkaBrokers, log.Named("kafka"))
	} else {
		log.Warn("no kafka brokers configured, custody events will only be logged")
		producer = kafka.NewLogProducer(log.Named("kafka"))
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.OutboxPollInterval,
		BatchSize:    cfg.OutboxBatchSize,
		MaxAttempts:  cfg.OutboxMaxAttempts,
	}, log.Named("publisher"))

	httpServer := server.New(service, userRepo, log.Named("http"), server.AuditConfig{
		Workers:   cfg.AuditWorkers,
		BatchSize: cfg.AuditBatchSize,
		Timeout:   cfg.AuditTimeout,
	})
	grpcServer := grpcserver.NewServer(database.GetPool(), 5*time.Second, log.Named("grpc"))

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: metricsMux}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Run(gctx, cfg.HTTPPort)
	})
	g.Go(func() error {
		return grpcServer.Run(gctx, cfg.GRPCPort)
	})
	g.Go(func() error {
		log.Info("metrics server started", zap.String("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		publisher.Shutdown()
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("custody service stopped")
	return nil
}
