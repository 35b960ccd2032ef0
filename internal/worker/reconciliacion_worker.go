package worker

// reconciliacion_worker.go
// Processes pesaje↔item repair jobs from QueueReconciliacion.
// A pesaje created before the catalog link existed (or whose link was lost)
// gets its ItemAlmacen backfilled by the same idempotent routine the edit
// flow uses, so re-running a job never creates a second lot.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ReconciliacionJobPayload is the job envelope sent to QueueReconciliacion.
type ReconciliacionJobPayload struct {
	PesajeID string `json:"pesaje_id"`
	Attempts int    `json:"attempts"`
}

const maxReconciliacionAttempts = 3

// Reconciliador repairs the warehouse-lot link of a single pesaje.
// Implemented by service.PesajeService; declared here so the worker package
// does not depend on the service package.
type Reconciliador interface {
	Reconciliar(ctx context.Context, pesajeID uuid.UUID) (bool, error)
}

// ErrPesajeDesaparecido lets the reconciler signal that the pesaje was
// deleted between enqueue and processing — the job is dropped, not retried.
var ErrPesajeDesaparecido = errors.New("pesaje no existe")

type ReconciliacionWorker struct {
	reconciliador Reconciliador
	dispatcher    *Dispatcher
}

func NewReconciliacionWorker(reconciliador Reconciliador, dispatcher *Dispatcher) *ReconciliacionWorker {
	return &ReconciliacionWorker{reconciliador: reconciliador, dispatcher: dispatcher}
}

// Process repairs one pesaje link. Transient failures are re-enqueued up to
// maxReconciliacionAttempts, then parked in the DLQ.
func (w *ReconciliacionWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload ReconciliacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("reconciliacion_worker: invalid payload")
		return
	}

	pesajeID, err := uuid.Parse(payload.PesajeID)
	if err != nil {
		log.Error().Str("pesaje_id", payload.PesajeID).Msg("reconciliacion_worker: malformed pesaje_id")
		return
	}

	reparado, err := w.reconciliador.Reconciliar(ctx, pesajeID)
	if err != nil {
		if errors.Is(err, ErrPesajeDesaparecido) {
			log.Debug().Str("pesaje_id", payload.PesajeID).Msg("reconciliacion_worker: pesaje ya no existe, job descartado")
			return
		}

		payload.Attempts++
		if payload.Attempts >= maxReconciliacionAttempts {
			SendToDLQ(ctx, rdb, QueueReconciliacion, "reconciliacion", raw, err.Error(), payload.Attempts)
			return
		}
		if qErr := w.dispatcher.EnqueueReconciliacion(ctx, payload); qErr != nil {
			log.Error().Err(qErr).Str("pesaje_id", payload.PesajeID).Msg("reconciliacion_worker: re-enqueue failed")
		}
		return
	}

	if reparado {
		log.Info().Str("pesaje_id", payload.PesajeID).Msg("reconciliacion_worker: item de almacen reparado")
	}
}
