package worker

// reconcile_cron.go
// Background goroutine that periodically sweeps for ingreso pesajes that
// qualify for a warehouse lot but have no item_almacen link (created before
// the catalog existed, or whose link was lost), and enqueues a repair job
// for each. The repair itself runs through the worker pool so sweeps stay
// cheap even when the backlog is large.

import (
	"context"
	"time"

	"opmina/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	reconcileTickInterval = time.Minute
	reconcileBatchSize    = 25
)

// ReconcileCronConfig holds all dependencies for the sweep goroutine.
type ReconcileCronConfig struct {
	PesajeRepo repository.PesajeRepository
	Dispatcher *Dispatcher
}

// StartReconcileCron launches a background goroutine that ticks every minute
// and enqueues reconciliation jobs for unlinked pesajes.
// It respects the context for graceful shutdown.
func StartReconcileCron(ctx context.Context, cfg ReconcileCronConfig) {
	go func() {
		ticker := time.NewTicker(reconcileTickInterval)
		defer ticker.Stop()

		log.Info().Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				sweep(ctx, cfg)
			}
		}
	}()
}

func sweep(ctx context.Context, cfg ReconcileCronConfig) {
	pesajes, err := cfg.PesajeRepo.ListSinItemAlmacen(ctx, reconcileBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("reconcile_cron: failed to query unlinked pesajes")
		return
	}
	if len(pesajes) == 0 {
		return
	}

	log.Info().Int("count", len(pesajes)).Msg("reconcile_cron: enqueueing repair jobs")

	for i := range pesajes {
		payload := ReconciliacionJobPayload{PesajeID: pesajes[i].ID.String()}
		if err := cfg.Dispatcher.EnqueueReconciliacion(ctx, payload); err != nil {
			log.Error().Err(err).Str("pesaje_id", payload.PesajeID).Msg("reconcile_cron: enqueue failed")
		}
	}
}
