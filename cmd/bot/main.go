package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magabrotheeeer/premium-group-bot/internal/app/health"
	"github.com/magabrotheeeer/premium-group-bot/internal/bot"
	"github.com/magabrotheeeer/premium-group-bot/internal/cache"
	"github.com/magabrotheeeer/premium-group-bot/internal/config"
	"github.com/magabrotheeeer/premium-group-bot/internal/lib/sl"
	"github.com/magabrotheeeer/premium-group-bot/internal/migrations"
	"github.com/magabrotheeeer/premium-group-bot/internal/rabbitmq"
	escalationservice "github.com/magabrotheeeer/premium-group-bot/internal/services/escalation"
	renewalservice "github.com/magabrotheeeer/premium-group-bot/internal/services/renewal"
	sweeperservice "github.com/magabrotheeeer/premium-group-bot/internal/services/sweeper"
	"github.com/magabrotheeeer/premium-group-bot/internal/storage/repository"
	"github.com/magabrotheeeer/premium-group-bot/internal/telegram"
)

// restartBackoff пауза перед перезапуском упавшего цикла обновлений.
const restartBackoff = 30 * time.Second

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil // готово
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

func main() {
	cfg := config.MustLoad()

	level := slog.LevelInfo
	if cfg.Env == "local" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	logger.Info("starting premium group bot", slog.String("env", cfg.Env), slog.Int64("admin_id", cfg.AdminID))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		_ = db.DB.Close()
	}()
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}
	if err = waitForDB(db); err != nil {
		logger.Error("database is not ready", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("storage ready")

	var statsCache *cache.Cache
	if cfg.RedisConnection.Addr != "" {
		statsCache, err = cache.InitServer(ctx, cfg.RedisConnection)
		if err != nil {
			logger.Error("failed to connect to redis, continuing without cache", sl.Err(err))
			statsCache = nil
		} else {
			logger.Info("redis cache connected", slog.String("address", cfg.RedisConnection.Addr))
		}
	}

	tg, err := telegram.New(cfg.BotToken)
	if err != nil {
		logger.Error("failed to create telegram client", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("telegram client ready", slog.String("bot", tg.Self().UserName))

	var events escalationservice.EventPublisher
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, 5, 3*time.Second)
		if err != nil {
			logger.Error("failed to connect to RabbitMQ", sl.Err(err))
			os.Exit(1)
		}
		defer func() {
			_ = conn.Close()
		}()
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetModerationQueues())
		if err != nil {
			logger.Error("failed to setup RabbitMQ channel", sl.Err(err))
			os.Exit(1)
		}
		defer func() {
			_ = ch.Close()
		}()
		events = rabbitmq.NewPublisher(ch)

		renewalService := renewalservice.NewService(db, logger)
		if err = rabbitmq.ConsumeMessages(ctx, ch, "subscription_renewals", renewalService.HandleRenewalMessage); err != nil {
			logger.Error("failed to start renewal consumer", sl.Err(err))
			os.Exit(1)
		}
		logger.Info("rabbitmq connected", slog.String("url", cfg.RabbitMQURL))
	}

	escalation := escalationservice.NewService(db, tg, events, cfg.AdminID, cfg.MuteDuration, logger)
	botApp := bot.New(db, tg, escalation, statsCache, cfg.AdminID, cfg.GroupID, logger)

	sweeper := sweeperservice.NewService(db, tg, botApp.GroupID, cfg.AdminID, logger)
	go sweeper.RunReminder(ctx, cfg.ReminderInterval)
	go sweeper.RunSubscriptionSweep(ctx)

	healthServer := health.New(cfg.HealthAddress, logger)
	go func() {
		if err := healthServer.Run(ctx); err != nil {
			logger.Error("health server stopped", sl.Err(err))
		}
	}()

	// Супервизор: упавший цикл обновлений перезапускается после паузы,
	// пока процесс не остановят сигналом.
	for {
		err := botApp.Run(ctx)
		if ctx.Err() != nil {
			logger.Info("bot stopped")
			return
		}
		logger.Error("bot run loop exited", sl.Err(err))
		logger.Info("restarting bot", slog.Duration("backoff", restartBackoff))
		select {
		case <-time.After(restartBackoff):
		case <-ctx.Done():
			logger.Info("bot stopped")
			return
		}
	}
}
