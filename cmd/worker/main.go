package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	notifRepo "pickleclub-backend/internal/notification/repository"
	"pickleclub-backend/internal/reminder"
	reminderRepo "pickleclub-backend/internal/reminder/repository"
	"pickleclub-backend/pkg/config"
	"pickleclub-backend/pkg/database"
	"pickleclub-backend/pkg/fcm"
	"pickleclub-backend/pkg/logger"

	"github.com/robfig/cron/v3"
)

func main() {
	once := flag.Bool("once", false, "run a single reminder pass and exit")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.Environment)

	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize FCM client")
	}

	worker := reminder.NewWorker(
		reminderRepo.NewBookingRepository(db),
		reminderRepo.NewNotificationLogRepository(db),
		notifRepo.NewPushTokenRepository(db),
		fcmClient,
		log,
	)

	run := func() {
		summary, err := worker.Run(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("reminder run failed")
			return
		}
		log.Info().Interface("summary", summary).Msg("reminder run complete")
	}

	if *once {
		run()
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.WorkerCronSpec, run); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.WorkerCronSpec).Msg("invalid cron spec")
	}
	c.Start()
	log.Info().Str("spec", cfg.WorkerCronSpec).Msg("reminder worker scheduled")

	// Run once immediately so a fresh deploy doesn't wait for the next tick.
	run()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	<-c.Stop().Done()
	log.Info().Msg("reminder worker stopped")
}
