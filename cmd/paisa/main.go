package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paisa/internal/advisor"
	"paisa/internal/amqp"
	"paisa/internal/auth"
	"paisa/internal/config"
	"paisa/internal/core"
	apphttp "paisa/internal/http"
	"paisa/internal/ledger"
	"paisa/internal/llm"
	applog "paisa/internal/log"
	"paisa/internal/receipt"
	"paisa/internal/services"
	"paisa/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := applog.New(applog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", "error", err)
		os.Exit(1)
	}

	gateway := llm.NewClient(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OpenAITimeout,
	}, applog.ForComponent(logger, "llm"))

	// Advice persistence is best-effort: a broken database disables it
	// rather than taking the server down.
	var saver advisor.AnalysisSaver
	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Warn("storage unavailable, advice persistence disabled", "error", err, "path", cfg.SQLiteDBPath)
	} else {
		defer repo.Close()
		saver = repo
	}

	var publisher services.ArchivePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, expense archival disabled", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	} else {
		logger.Info("AMQP not configured, expense archival disabled")
	}

	store := ledger.NewStore()
	expenses := services.NewExpenseService(store, publisher)
	requester := advisor.NewRequester(gateway, saver, cfg.AdviceCacheSize, cfg.AdviceCacheTTL, applog.ForComponent(logger, "advisor"))
	processor := receipt.NewProcessor(gateway, applog.ForComponent(logger, "receipt"))
	verifier := auth.NewVerifier(cfg.JWTSecret)

	srvOpts := apphttp.Options{
		Expenses:      expenses,
		Advisor:       requester,
		Receipts:      processor,
		Verifier:      verifier,
		DefaultBudget: core.Money{Paise: cfg.MonthlyBudgetPaise},
		WindowDays:    cfg.AverageWindowDays,
	}
	if repo != nil {
		srvOpts.Archive = repo
	}
	srv := apphttp.NewServer(":"+cfg.Port, srvOpts)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 60 * time.Second // gateway calls can take a while
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("starting paisa server", "port", cfg.Port, "model", cfg.OpenAIModel)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("server stopped gracefully")
}
