package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"welltrack.io/welltrack/internal/api"
	"welltrack.io/welltrack/internal/auth"
	"welltrack.io/welltrack/internal/config"
	"welltrack.io/welltrack/internal/core"
	"welltrack.io/welltrack/internal/logging"
	"welltrack.io/welltrack/internal/store"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (overrides CONFIG_FILE)")
	seedFlag := flag.Bool("seed", false, "Load a week of demo data and exit")
	resetFlag := flag.Bool("reset", false, "Delete all hydration and mood data and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *seedFlag, *resetFlag); err != nil {
		logger.Fatal("service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger, seed, reset bool) error {
	ctx := context.Background()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbStore.Close()

	hydration := core.NewHydrationService(dbStore, logger)
	moods := core.NewMoodService(dbStore, logger)
	settings := core.NewSettingsService(dbStore, cfg.DailyGoalMl, logger)
	insights := core.NewInsightsService(hydration, moods, settings, cfg.WindowDays, logger)

	if seed || reset {
		if reset {
			if err := insights.ResetDemoData(ctx); err != nil {
				return err
			}
		}
		if seed {
			result, err := insights.SeedDemoData(ctx)
			if err != nil {
				return err
			}
			logger.Info("demo data seeded",
				zap.Int("hydration_entries", result.HydrationEntries),
				zap.Int("mood_entries", result.MoodEntries),
			)
		}
		return nil
	}

	quotes, closeQuotes, err := buildQuoteProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeQuotes()

	health := core.NewSampleHealthProvider(dbStore, cfg.HealthEnabled, logger)
	dashboard := core.NewDashboardService(hydration, moods, settings, health, quotes, logger)

	scheduler := core.NewReminderScheduler(core.NewLogNotifier(logger), time.Local, logger)
	scheduler.Start()
	defer scheduler.Stop()
	reminders := core.NewReminderService(settings, scheduler,
		core.ReminderHours(cfg.ReminderStartHour, cfg.ReminderEndHour, cfg.ReminderIntervalHours))
	if err := reminders.Restore(ctx); err != nil {
		logger.Warn("failed to restore reminders", zap.Error(err))
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, auth.DefaultTokenTTL)
	if err != nil {
		return err
	}
	passcodeHash, err := auth.HashPassword(cfg.AccessPasscode)
	if err != nil {
		return fmt.Errorf("failed to hash access passcode: %w", err)
	}

	apiHandler := api.NewAPIHandler(api.Services{
		Hydration: hydration,
		Moods:     moods,
		Journal:   core.NewJournalService(dbStore),
		Settings:  settings,
		Health:    health,
		Dashboard: dashboard,
		Insights:  insights,
		Reminders: reminders,
	}, tokens, passcodeHash, logger)
	router := api.NewRouter(apiHandler, logger)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // quote lookups may hit a remote service
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("could not listen on %s: %w", serverAddr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited gracefully")
	return nil
}

// buildQuoteProvider picks ZenQuotes or Gemini and, when REDIS_ADDR is set,
// caches the quote of the day in Redis.
func buildQuoteProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (core.QuoteProvider, func(), error) {
	var (
		provider core.QuoteProvider
		closers  []func()
	)
	switch cfg.QuoteProvider {
	case config.QuoteProviderGemini:
		llm, err := core.NewLLMService(ctx, cfg.GeminiAPIKey, logger)
		if err != nil {
			return nil, nil, err
		}
		provider = llm
		closers = append(closers, llm.Close)
	default:
		provider = core.NewZenQuotesProvider(cfg.QuoteURL, &http.Client{Timeout: 10 * time.Second}, logger)
	}

	if cfg.RedisAddr != "" {
		cached, err := core.NewCachedQuoteProvider(cfg.RedisAddr, cfg.RedisPassword, "", provider, logger)
		if err != nil {
			return nil, nil, err
		}
		provider = cached
		closers = append(closers, func() {
			if err := cached.Close(); err != nil {
				logger.Warn("failed to close redis client", zap.Error(err))
			}
		})
	}

	return provider, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}
