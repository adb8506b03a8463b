// Command leadflowd runs the lead lifecycle service: a Postgres-backed
// lead store driven by the lifecycle state chart, an ingest pipeline,
// a Redis-fed outreach dispatcher, and the HTTP API on top.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/leadflowhq/leadflow/internal/api"
	"github.com/leadflowhq/leadflow/internal/lead"
	"github.com/leadflowhq/leadflow/internal/outreach"
	"github.com/leadflowhq/leadflow/internal/prospect"
	"github.com/leadflowhq/leadflow/internal/storage"
	"github.com/leadflowhq/leadflow/pkg/config"
	"github.com/leadflowhq/leadflow/pkg/httpserver"
	"github.com/leadflowhq/leadflow/pkg/logger"
	"github.com/leadflowhq/leadflow/pkg/pg"
	"github.com/leadflowhq/leadflow/pkg/redis"
)

type appConfig struct {
	Logger   logger.Config
	Postgres pg.Config
	Redis    redis.Config
	HTTP     httpserver.Config
	Outreach outreach.Config

	// SourceID labels leads ingested through the HTTP API.
	SourceID string `env:"LEAD_SOURCE_ID" envDefault:"api"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger)
	logger.SetAsDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("leadflowd exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg appConfig, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, storage.Migrations(), cfg.Postgres, log); err != nil {
		return err
	}

	rdb, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	queue := outreach.NewRedisQueue(rdb, cfg.Outreach.QueueKey)

	leads := lead.NewService(lead.NewPGStorage(pool),
		lead.WithLogger(log),
		lead.WithTransitionHook(outreach.EnqueueHook(queue, log)),
	)
	dispatcher := outreach.NewDispatcher(queue, leads, cfg.Outreach, outreach.WithLogger(log))

	pipeline := prospect.NewPipeline(leads,
		prospect.WithLogger(log),
		prospect.WithSourceID(cfg.SourceID),
	)

	router := api.Router(api.RouterOptions{
		Leads:    leads,
		Pipeline: pipeline,
		HealthChecks: map[string]httpserver.HealthCheck{
			"postgres": pg.Healthcheck(pool),
			"redis":    redis.Healthcheck(rdb),
		},
	})

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return srv.Run(ctx, router)
	})

	return g.Wait()
}
