package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReconciliacion = "jobs:reconciliacion"
	QueueAlerta         = "jobs:alerta"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueReconciliacion pushes a pesaje↔item repair job to Redis.
func (d *Dispatcher) EnqueueReconciliacion(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueReconciliacion, "reconciliacion", payload)
}

// EnqueueAlertaStock pushes a negative-stock alert mail job to Redis.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, payload interface{}) error {
	return d.enqueue(ctx, QueueAlerta, "alerta_stock", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers groups the per-queue processors wired at the composition root.
type WorkerHandlers struct {
	Reconciliacion *ReconciliacionWorker
	Alerta         *AlertaWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueReconciliacion, QueueAlerta}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	switch queue {
	case QueueReconciliacion:
		if handlers.Reconciliacion != nil {
			handlers.Reconciliacion.Process(ctx, rdb, job.Payload)
		}
	case QueueAlerta:
		if handlers.Alerta != nil {
			handlers.Alerta.Process(ctx, job.Payload)
		}
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("job from unknown queue dropped")
	}
}
