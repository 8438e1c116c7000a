package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/Maksumys/status-logger"
)

func main() {
	migrateOnly := pflag.Bool("migrate-only", false, "Run schema migrations and exit")
	pflag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)

	defer func() {
		if r := recover(); r != nil {
			log.Fatalf("Unhandled fault: %v", r)
		}
	}()

	config, err := status_logger.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := status_logger.OpenClickHouse(ctx, config.ClickHouse)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	runner := status_logger.NewMigrationRunner(db,
		status_logger.WithLogger(log.WithField("component", "migrations")))
	runner.Register(status_logger.DefaultMigrations(config.Table)...)

	if *migrateOnly {
		if err = runner.Migrate(ctx); err != nil {
			log.Fatal(err)
		}
		return
	}

	fetcher := status_logger.NewFetcher(config.SourceURL, config.UserAgent, config.FetchTimeout(),
		log.WithField("component", "fetcher"))
	loop := status_logger.NewIngestLoop(fetcher, db, config.Table,
		log.WithField("component", "ingest"))
	scheduler := status_logger.NewScheduler(runner, loop, config.PollInterval,
		log.WithField("component", "scheduler"))

	if err = scheduler.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
