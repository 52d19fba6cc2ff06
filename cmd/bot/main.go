package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Freeeeeet/training_bot/internal/app"
	"github.com/Freeeeeet/training_bot/internal/auth"
	"github.com/Freeeeeet/training_bot/internal/config"
	"github.com/Freeeeeet/training_bot/internal/controller"
	"github.com/Freeeeeet/training_bot/internal/controller/workspace"
	"github.com/Freeeeeet/training_bot/internal/repository"
	"github.com/Freeeeeet/training_bot/internal/service"
	"github.com/Freeeeeet/training_bot/internal/session"
	"github.com/Freeeeeet/training_bot/migrations"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Sugar().Infow("Starting training bot",
		"environment", cfg.Environment,
		"timezone", cfg.Location.String(),
		"admins", len(cfg.AdminEmails),
		"slots", len(cfg.SlotTimes))

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		return err
	}
	if err := migrator.Run(ctx); err != nil {
		return err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Repositories
	bookingRepo := repository.NewBookingRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	routineRepo := repository.NewRoutineRepository(pool)

	// Services
	clock := service.SystemClock(cfg.Location)
	changes := service.NewChangeBroker()
	bookingService := service.NewBookingService(bookingRepo, changes, clock, logger)
	availabilityService := service.NewAvailabilityService(bookingRepo, cfg.SlotTimes, clock, logger)
	profileService := service.NewProfileService(profileRepo, logger)
	routineService := service.NewRoutineService(routineRepo, logger)

	provider, err := auth.NewSupabaseProvider(cfg.SupabaseURL, cfg.SupabaseAnonKey, logger)
	if err != nil {
		return err
	}

	workspaces := workspace.NewRegistry(workspace.Deps{
		Auth:         provider,
		Profiles:     profileService,
		Admins:       session.NewAllowList(cfg.AdminEmails),
		Availability: availabilityService,
		Bookings:     bookingService,
		Roster:       profileService,
		Routines:     routineService,
		Service:      cfg.DefaultService,
		Professional: cfg.DefaultProfessional,
		Now:          clock,
		Logger:       logger,
	})
	defer workspaces.Close()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		return err
	}

	botController := controller.NewBotController(b, workspaces, bookingService, clock, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		// Меню команд не критично для работы
		logger.Warn("Failed to register bot commands", zap.Error(err))
	}

	watcher := app.NewWatcher(repository.NewBookingListener(pool, logger), changes, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		return botController.Start(gctx)
	})

	return g.Wait()
}
