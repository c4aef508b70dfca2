package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bankbroker/backend/internal/config"
	"github.com/bankbroker/backend/internal/database"
	"github.com/bankbroker/backend/internal/handlers"
	"github.com/bankbroker/backend/internal/logger"
	"github.com/bankbroker/backend/internal/repository"
	"github.com/bankbroker/backend/internal/service"
	"go.uber.org/zap"
)

type App struct {
	server *http.Server
	db     *sql.DB
}

func NewApp() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ParseFlags()

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Error("Database connection failed", zap.Error(err))
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)

	userService := service.NewUserService(userRepo)
	accountService := service.NewAccountService(accountRepo, transactionRepo)
	ledgerService := service.NewLedgerService(accountRepo)
	withdrawalService := service.NewWithdrawalService(withdrawalRepo, accountRepo)

	handler := handlers.NewHandler(userService, accountService, ledgerService, withdrawalService, cfg.SecretKey)
	r := handlers.NewRouter(handler, cfg.SecretKey)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	return &App{
		server: server,
		db:     db,
	}, nil
}

func (a *App) Run() error {
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logger.Log.Info("shutting down server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
		return err
	}

	logger.Log.Info("closing database connection...")
	if err := a.db.Close(); err != nil {
		logger.Log.Error("failed to close database", zap.Error(err))
		return err
	}

	return nil
}
