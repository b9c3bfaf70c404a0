package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/codex-company-registry/internal/adapters/events/kafka"
	httphandler "github.com/ogurasousui/codex-company-registry/internal/adapters/http/handler"
	"github.com/ogurasousui/codex-company-registry/internal/adapters/repository/postgres"
	"github.com/ogurasousui/codex-company-registry/internal/core/company"
	"github.com/ogurasousui/codex-company-registry/internal/core/person"
	"github.com/ogurasousui/codex-company-registry/internal/platform/config"
	pg "github.com/ogurasousui/codex-company-registry/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-company-registry/internal/platform/logger"
	"github.com/ogurasousui/codex-company-registry/internal/platform/server"
)

type eventPublisher interface {
	company.EventPublisher
	Close() error
}

func main() {
	configPath := flag.String("config", "", "path to config file (defaults to CONFIG_PATH env or assets/local.yaml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "server stopped with error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(config.ResolvePath(configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database pool: %w", err)
	}
	defer dbPool.Close()

	txManager := pg.NewTransactionManager(dbPool, pg.WithIsolationLevel(cfg.Database.IsolationLevel))

	var publisher eventPublisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		log.Info("publishing company events", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	personRepo := postgres.NewPersonRepository(dbPool)
	personSvc := person.NewService(personRepo, nil, txManager)

	companyRepo := postgres.NewCompanyRepository(dbPool)
	companySvc := company.NewService(companyRepo, personSvc, nil, txManager,
		company.WithPublisher(publisher),
		company.WithLogger(log.Named("company")),
	)

	router := httphandler.NewRouter(httphandler.RouterConfig{
		Companies:    httphandler.NewCompanyHandler(companySvc),
		Persons:      httphandler.NewPersonHandler(personSvc),
		Health:       httphandler.NewHealthHandler(dbPool),
		Logger:       log.Named("http"),
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	})

	httpServer := server.NewHTTP(cfg.HTTP, router, log.Named("http"))
	grpcServer := server.New(cfg.Server.ListenAddr, dbPool, log.Named("grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return grpcServer.Run(gctx) })

	return g.Wait()
}
