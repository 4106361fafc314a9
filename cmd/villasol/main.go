package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/villasol-erp/villasol-erp/internal/app"
	"github.com/villasol-erp/villasol-erp/internal/auth"
	"github.com/villasol-erp/villasol-erp/internal/billing"
	"github.com/villasol-erp/villasol-erp/internal/catalog"
	"github.com/villasol-erp/villasol-erp/internal/commissions"
	"github.com/villasol-erp/villasol-erp/internal/expenses"
	"github.com/villasol-erp/villasol-erp/internal/numbering"
	"github.com/villasol-erp/villasol-erp/internal/platform/cache"
	"github.com/villasol-erp/villasol-erp/internal/platform/db"
	"github.com/villasol-erp/villasol-erp/internal/quotations"
	"github.com/villasol-erp/villasol-erp/internal/reservations"
	"github.com/villasol-erp/villasol-erp/internal/transfer"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	numbers := numbering.NewService(redisClient)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := auth.NewHandler(logger, authService)

	billingRepo := billing.NewRepository(pool)
	billingService := billing.NewService(billingRepo, numbers)
	billingHandler := billing.NewHandler(logger, billingService)

	catalogRepo := catalog.NewRepository(pool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	reservationsRepo := reservations.NewRepository(pool)
	reservationsService := reservations.NewService(reservationsRepo, billingService, catalogService)
	reservationsHandler := reservations.NewHandler(logger, reservationsService)

	expensesRepo := expenses.NewRepository(pool)
	expensesService := expenses.NewService(expensesRepo, billingService)
	expensesHandler := expenses.NewHandler(logger, expensesService)

	quotationsRepo := quotations.NewRepository(pool)
	quotationsService := quotations.NewService(quotationsRepo, numbers, reservationsService)
	quotationsHandler := quotations.NewHandler(logger, quotationsService)

	commissionsService := commissions.NewService(billingService, redisClient, cfg.CommissionRateDecimal())
	commissionsHandler := commissions.NewHandler(logger, commissionsService)

	transferHandler := transfer.NewHandler(logger, billingService, billingRepo)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		AuthHandler:         authHandler,
		BillingHandler:      billingHandler,
		ReservationsHandler: reservationsHandler,
		ExpensesHandler:     expensesHandler,
		CatalogHandler:      catalogHandler,
		QuotationsHandler:   quotationsHandler,
		CommissionsHandler:  commissionsHandler,
		TransferHandler:     transferHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
