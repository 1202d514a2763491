package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sistema-vendas/internal/config"
	"sistema-vendas/internal/database"
	"sistema-vendas/internal/logger"
	"sistema-vendas/internal/repository"
	"sistema-vendas/internal/server"

	"go.uber.org/zap"
)

func gracefulShutdown(srv *server.Server, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := srv.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	done <- true
}

// logSummary reports what the stores currently hold
func logSummary(ctx context.Context, log *zap.Logger, categories repository.CategoryRepository, sales repository.SaleRepository, recentMonths int) {
	count, err := categories.Count(ctx)
	if err != nil {
		log.Warn("Failed to count categories", zap.Error(err))
	}

	revenue, err := sales.TotalRevenue(ctx)
	if err != nil {
		log.Warn("Failed to compute total revenue", zap.Error(err))
	}

	recent, err := sales.MonthlyTotalsRecent(ctx, recentMonths)
	if err != nil {
		log.Warn("Failed to compute recent monthly totals", zap.Error(err))
	}

	log.Info("Store summary",
		zap.Int("categories", count),
		zap.Float64("total_revenue", revenue),
		zap.Int("recent_months", recentMonths),
		zap.Any("monthly_totals", recent),
	)
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting sales data service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	dbService, err := database.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := dbService.DB()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	version, err := database.CurrentVersion(db, log)
	if err != nil {
		log.Warn("Failed to read schema version", zap.Error(err))
	}
	log.Info("Database schema ready", zap.Int64("version", version))

	if !cfg.Server.IsProduction() {
		if err := database.GetMigrationStatus(db, log); err != nil {
			log.Warn("Failed to read migration status", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	logSummary(ctx, log,
		repository.NewCategoryRepository(db),
		repository.NewSaleRepository(db),
		cfg.Report.RecentMonths,
	)
	cancel()

	srv := server.NewServer(cfg, log, dbService)

	done := make(chan bool, 1)

	go gracefulShutdown(srv, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	<-done
	log.Info("Graceful shutdown complete")
}
