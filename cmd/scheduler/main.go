package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/lending-engine/internal/cache"
	"github.com/segyhp/lending-engine/internal/config"
	"github.com/segyhp/lending-engine/internal/logger"
	"github.com/segyhp/lending-engine/internal/repository"
	"github.com/segyhp/lending-engine/internal/service"
	"github.com/segyhp/lending-engine/pkg/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	log.Info("Starting late fee scheduler...")

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.GetConnMaxLifetime())

	// the sweep only reads loans and appends history, so it needs neither
	// the shared lock nor the cache
	collectionService := service.NewCollectionService(
		repository.NewStore(db),
		repository.NewTxRunner(db),
		cache.NewLocalLocker(),
		cache.NoopBreakdownCache{},
		config.FeePresets{},
		cfg,
		log,
	)

	location := cfg.GetSchedulerLocation()
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	// Schedule tasks
	if err := setupCronJobs(c, cfg, collectionService, location, log); err != nil {
		log.Fatalf("Error scheduling late fee job: %v", err)
	}

	// Start the scheduler
	c.Start()
	log.WithFields(logrus.Fields{
		"spec":     cfg.Scheduler.LateFeeCron,
		"timezone": location.String(),
	}).Info("Scheduler started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, collectionService *service.CollectionService, location *time.Location, log *logrus.Logger) error {
	// Daily late fee snapshot of every active loan
	_, err := c.AddFunc(cfg.Scheduler.LateFeeCron, func() {
		asOf := utils.CalendarDate(time.Now().In(location))
		log.WithField("as_of", asOf.Format(time.DateOnly)).Info("Running late fee recalculation job...")

		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		processed, failed, err := collectionService.RecalculateAllLateFees(ctx, asOf)
		entry := log.WithFields(logrus.Fields{"processed": processed, "failed": failed})
		if err != nil {
			entry.WithError(err).Error("Late fee recalculation finished with errors")
			return
		}
		entry.Info("Late fee recalculation finished")
	})
	return err
}
