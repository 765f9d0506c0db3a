package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	logrus "github.com/sirupsen/logrus"

	"windfall/bot"
	"windfall/captcha"
	"windfall/config"
	"windfall/database"
	"windfall/domain/services"
	"windfall/events"
	"windfall/repository"
	"windfall/scheduler"
	"windfall/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting windfall...")

	// Load configuration
	cfg := config.Get()
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Apply pending migrations before anything touches the schema
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize repositories
	claimRepo := repository.NewClaimRepository(db.Pool)
	epochRepo := repository.NewWindowEpochRepository(db.Pool)

	// Initialize captcha verifier and the window arbiter
	verifier := captcha.New(cfg.CaptchaSecret, cfg.CaptchaVerifyURL)
	windowService := services.NewWindowService(claimRepo, epochRepo, verifier, eventBus)

	// Initialize Discord announcer when configured
	var announcer *bot.Announcer
	if cfg.DiscordToken != "" && cfg.DiscordChannelID != "" {
		log.Println("Initializing Discord announcer...")
		announcer, err = bot.New(bot.Config{
			Token:     cfg.DiscordToken,
			ChannelID: cfg.DiscordChannelID,
		}, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord announcer: %w", err)
		}
		log.Println("Discord announcer initialized successfully")
	}

	// Initialize scheduler when a cron spec is configured
	var sched *scheduler.Scheduler
	if cfg.WindowCron != "" {
		sched = scheduler.New(windowService, time.Duration(cfg.DefaultWindowSeconds)*time.Second)
		if err := sched.Schedule(cfg.WindowCron); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		sched.Start()
		log.Printf("Window scheduler running with spec %q", cfg.WindowCron)
	}

	// Start web server
	srv := web.NewServer(windowService)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("failed to start web server: %w", err)
	}

	// Wait for context cancellation
	log.Printf("Windfall is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop accepting claims first
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}

	if sched != nil {
		sched.Stop()
	}

	if announcer != nil {
		if err := announcer.Close(); err != nil {
			log.Printf("Error closing Discord announcer: %v", err)
		}
	}

	// Cancel any pending window expiry timer
	windowService.Close()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	log.Println("Shutdown completed")
	return nil
}
