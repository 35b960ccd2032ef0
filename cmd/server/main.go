package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opmina/internal/config"
	"opmina/internal/infra"
	"opmina/internal/repository"
	"opmina/internal/router"
	"opmina/internal/service"
	"opmina/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Composition root: the worker pool needs the reconciliation service, which
	// needs the dispatcher, so everything async is wired here.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	padronCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	pesajeRepo := repository.NewPesajeRepository(db)
	canchaRepo := repository.NewCanchaRepository(db)
	almacenRepo := repository.NewAlmacenRepository(db)
	movimientoRepo := repository.NewMovimientoCanchaRepository(db)
	pesajeSvc := service.NewPesajeService(pesajeRepo, canchaRepo, almacenRepo, movimientoRepo, dispatcher)

	workerHandlers := &worker.WorkerHandlers{
		Reconciliacion: worker.NewReconciliacionWorker(pesajeSvc, dispatcher),
		Alerta:         worker.NewAlertaWorker(mailer, cfg.AlertaEmail),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
	worker.StartReconcileCron(ctx, worker.ReconcileCronConfig{
		PesajeRepo: pesajeRepo,
		Dispatcher: dispatcher,
	})

	r := router.New(cfg, db, rdb, padronCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("OpMina backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
