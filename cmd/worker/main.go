package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/VanilleBid/weekly-saleor/internal/app"
	"github.com/VanilleBid/weekly-saleor/internal/config"
	"github.com/VanilleBid/weekly-saleor/internal/obs"
	"github.com/VanilleBid/weekly-saleor/internal/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "worker").Logger()

	server, err := app.NewTaskServer(cfg.RedisURL, 4)
	if err != nil {
		logger.Fatal().Err(err).Msg("init task server")
	}

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeLowStockAlert, queue.LowStockHandler{Log: logger})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info().Msg("worker shutting down")
		server.Shutdown()
	}()

	logger.Info().Msg("worker starting")
	if err := server.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}
