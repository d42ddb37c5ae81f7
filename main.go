package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_reports/api"
	"api_reports/internal/config"
	"api_reports/internal/database"
	"api_reports/internal/inventory"
	"api_reports/internal/logging"
	"api_reports/internal/notify"
	"api_reports/internal/prompt"
	"api_reports/internal/report"
	"api_reports/internal/sales"
	"api_reports/internal/users"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.Must(cfg.App.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	logger.Info("database ready", zap.String("driver", string(db.Dialect)))

	// Alertas de stock
	mailer, err := notify.NewMailer(cfg.Mail, logger)
	if err != nil {
		return err
	}
	if c, ok := mailer.(io.Closer); ok {
		defer c.Close()
	}
	notifier := notify.NewNotifier(users.NewSQLStorage(db, logger), mailer, cfg.Mail.From, cfg.Notifier, logger)
	defer notifier.Close()

	var adapterOpts []prompt.AdapterOption
	if cache := newPromptCache(ctx, cfg, logger); cache != nil {
		defer cache.Close()
		adapterOpts = append(adapterOpts, prompt.WithCache(cache))
	}
	adapter := prompt.NewAdapter(newInterpreter(ctx, cfg, logger), logger, adapterOpts...)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	api.InitRoutes(router, api.Dependencies{
		Sales:       sales.NewService(sales.NewSQLStorage(db, logger), logger),
		Reports:     report.NewRenderer(report.DefaultStylesheet(), logger, report.WithSystemName(cfg.App.Name)),
		Prompts:     adapter,
		Inventory:   inventory.NewService(inventory.NewSQLStorage(db, logger), notifier, cfg.Notifier.LowStockThreshold, logger),
		AdminTokens: cfg.Auth.AdminTokens,
		Logger:      logger,
	})

	if len(cfg.Auth.AdminTokens) == 0 {
		logger.Warn("ADMIN_TOKENS is empty, every admin request will be rejected")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("error trying to start server: %w", err)
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	// notifier.Close corre en el defer, despues del servidor
	return nil
}

func newInterpreter(ctx context.Context, cfg *config.Config, logger *zap.Logger) prompt.Interpreter {
	if cfg.AI.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is empty, dynamic reports are disabled")
		return prompt.Disabled("GEMINI_API_KEY no configurada")
	}
	chatModel, err := prompt.NewGeminiModel(ctx, cfg.AI)
	if err != nil {
		logger.Error("could not create gemini model", zap.Error(err))
		return prompt.Disabled(err.Error())
	}
	return prompt.NewChatInterpreter(chatModel, cfg.AI.BreakerTimeout, logger)
}

// newPromptCache is nil when REDIS_ADDR is empty or Redis is unreachable.
func newPromptCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) *prompt.RedisCache {
	if cfg.Cache.RedisAddr == "" {
		return nil
	}
	client, err := prompt.DialRedis(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
	if err != nil {
		logger.Warn("prompt cache disabled", zap.Error(err))
		return nil
	}
	return prompt.NewRedisCache(client, cfg.Cache.PromptTTL)
}
