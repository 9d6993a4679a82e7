package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spinwin/giveaway-backend/api/routes"
	"github.com/spinwin/giveaway-backend/internal/config"
	"github.com/spinwin/giveaway-backend/internal/handlers"
	"github.com/spinwin/giveaway-backend/internal/repositories"
	mongorepo "github.com/spinwin/giveaway-backend/internal/repositories/mongodb"
	"github.com/spinwin/giveaway-backend/internal/services"
	"github.com/spinwin/giveaway-backend/pkg/mongodb"
	"golang.org/x/exp/slog"
)

func main() {
	// Load .env if present, real environment wins
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	// Connect to MongoDB
	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		slog.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	// Repositories
	var participantRepo repositories.ParticipantRepository = mongorepo.NewParticipantRepository(db)
	var adjustmentRepo repositories.AdjustmentRepository = mongorepo.NewAdjustmentRepository(db)
	var windowRepo repositories.DrawWindowRepository = mongorepo.NewDrawWindowRepository(db)
	var resultRepo repositories.DrawResultRepository = mongorepo.NewDrawResultRepository(db)
	var settingsRepo repositories.GameSettingsRepository = mongorepo.NewGameSettingsRepository(db)
	var adminUserRepo repositories.AdminUserRepository = mongorepo.NewAdminUserRepository(db)

	// Services
	ledgerService := services.NewLedgerService(participantRepo, adjustmentRepo, services.LedgerOptions{
		InitialSlots: cfg.Ledger.InitialSlots,
		MinSlots:     cfg.Ledger.MinSlots,
		PurchaseUnit: cfg.Ledger.PurchaseUnit,
	})
	scheduler := services.NewDrawScheduler(time.Duration(cfg.Draw.UrgencyThresholdHours) * time.Hour)
	settingsService := services.NewGameSettingsService(settingsRepo)
	drawService := services.NewDrawService(
		ledgerService,
		scheduler,
		windowRepo,
		resultRepo,
		settingsService,
		time.Duration(cfg.Draw.WindowHours)*time.Hour,
	)
	authService := services.NewAuthService(adminUserRepo, cfg)

	// Create the bootstrap admin account when configured
	if err := authService.Bootstrap(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
		slog.Error("failed to bootstrap admin account", "error", err)
		os.Exit(1)
	}

	// Handlers and router
	router := routes.SetupRouter(cfg, routes.HandlerDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService),
		ParticipantHandler: handlers.NewParticipantHandler(ledgerService),
		DrawHandler:        handlers.NewDrawHandler(drawService),
		SettingsHandler:    handlers.NewSettingsHandler(settingsService),
	})

	// Draw tick loop
	tickCtx, stopTicks := context.WithCancel(context.Background())
	go runDrawLoop(tickCtx, drawService, time.Duration(cfg.Draw.TickSeconds)*time.Second)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	stopTicks()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

// runDrawLoop drives the draw cycle. Each tick advances the countdown state
// machine and executes the draw when the window deadline has passed.
func runDrawLoop(ctx context.Context, drawService services.DrawService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := drawService.Tick(ctx)
			if err != nil {
				slog.Warn("draw tick failed", "error", err)
				continue
			}
			if result != nil {
				slog.Info("draw completed",
					"winnerId", result.WinnerID.Hex(),
					"winner", result.WinnerName,
					"totalSlots", result.Snapshot.TotalSlots)
			}
		}
	}
}

// setupLogger configures the global structured logger
func setupLogger(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})))
}
