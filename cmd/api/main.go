package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/chief-rocca/shiftly/internal/api"
	"github.com/chief-rocca/shiftly/internal/cache"
	redisCache "github.com/chief-rocca/shiftly/internal/cache/redis"
	"github.com/chief-rocca/shiftly/internal/config"
	"github.com/chief-rocca/shiftly/internal/database"
	"github.com/chief-rocca/shiftly/internal/derivation"
	"github.com/chief-rocca/shiftly/internal/events"
	"github.com/chief-rocca/shiftly/internal/listing"
	"github.com/chief-rocca/shiftly/internal/repository"
	"github.com/chief-rocca/shiftly/internal/templates"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return zap.NewProduction()
}

func newNATSConnection(cfg *config.Config) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Timeout(cfg.NATSConnTimeout),
		nats.Name("shiftly-api"),
		nats.RetryOnFailedConnect(true),
	}
	return nats.Connect(cfg.NATSURL, opts...)
}

func newClickHouseConnection(cfg *config.Config, logger *zap.Logger) (clickhouse.Conn, error) {
	db, err := database.New(context.Background(), database.Options{
		DSN:             cfg.ClickHouseDSN,
		MaxOpenConns:    cfg.ClickHouseMaxOpenConns,
		MaxIdleConns:    cfg.ClickHouseMaxIdleConns,
		ConnMaxLifetime: cfg.ClickHouseConnMaxLife,
		Username:        cfg.ClickHouseUsername,
		Password:        cfg.ClickHousePassword,
		Database:        cfg.ClickHouseDatabase,
	}, logger)
	if err != nil {
		return nil, err
	}
	return db.Conn(), nil
}

func newCache(cfg *config.Config) cache.Cache {
	return redisCache.New(cache.Options{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DefaultTTL:    cfg.ConfirmTokenTTL,
	})
}

// newPublisher ties the publisher's NATS connection to the fx lifecycle so
// it is closed on shutdown, after the feed has unsubscribed.
func newPublisher(lc fx.Lifecycle, logger *zap.Logger, nc *nats.Conn) events.Publisher {
	publisher := events.NewPublisher(logger, nc)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			publisher.Close()
			return nil
		},
	})
	return publisher
}

func newTemplateService(cfg *config.Config, logger *zap.Logger, repo *repository.TemplateRepository, publisher events.Publisher) *templates.Service {
	return templates.NewService(logger, repo, publisher, cfg.TemplatePageSize)
}

func newDerivationWorkflow(cfg *config.Config, logger *zap.Logger, tplRepo *repository.TemplateRepository, jobRepo *repository.JobRepository, tokens cache.Cache, publisher events.Publisher) *derivation.Workflow {
	return derivation.NewWorkflow(logger, tplRepo, jobRepo, tokens, publisher, cfg.ConfirmTokenTTL)
}

func newFeed(logger *zap.Logger, nc *nats.Conn, jobRepo *repository.JobRepository) *listing.Feed {
	return listing.NewFeed(logger, nc, jobRepo)
}

func newServer(cfg *config.Config, logger *zap.Logger, handlers *api.Handlers) *api.Server {
	return api.NewServer(logger, handlers, cfg.HTTPAddr)
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			newLogger,
			newNATSConnection,
			newClickHouseConnection,
			newCache,
			repository.NewTemplateRepository,
			repository.NewJobRepository,
			newPublisher,
			newTemplateService,
			newDerivationWorkflow,
			newFeed,
			api.NewHandlers,
			newServer,
		),
		fx.Invoke(
			func(feed *listing.Feed, lc fx.Lifecycle) {
				feed.Start(lc)
			},
			func(server *api.Server, lc fx.Lifecycle) {
				server.Register(lc)
			},
		),
	)

	startCtx := context.Background()
	if err := app.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
