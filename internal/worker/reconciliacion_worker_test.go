package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeReconciliador struct {
	llamadas []uuid.UUID
	err      error
}

func (f *fakeReconciliador) Reconciliar(_ context.Context, pesajeID uuid.UUID) (bool, error) {
	f.llamadas = append(f.llamadas, pesajeID)
	return f.err == nil, f.err
}

func payloadDe(t *testing.T, p ReconciliacionJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	assert.NoError(t, err)
	return raw
}

func TestReconciliacionWorkerProcesaJob(t *testing.T) {
	rec := &fakeReconciliador{}
	w := NewReconciliacionWorker(rec, nil)

	id := uuid.New()
	w.Process(context.Background(), nil, payloadDe(t, ReconciliacionJobPayload{PesajeID: id.String()}))

	assert.Equal(t, []uuid.UUID{id}, rec.llamadas)
}

func TestReconciliacionWorkerDescartaPesajeDesaparecido(t *testing.T) {
	// El pesaje se borró entre el enqueue y el proceso: el job se descarta sin
	// reintento (no se toca el dispatcher nil).
	rec := &fakeReconciliador{err: ErrPesajeDesaparecido}
	w := NewReconciliacionWorker(rec, nil)

	w.Process(context.Background(), nil, payloadDe(t, ReconciliacionJobPayload{PesajeID: uuid.NewString()}))
	assert.Len(t, rec.llamadas, 1)
}

func TestReconciliacionWorkerIgnoraPayloadInvalido(t *testing.T) {
	rec := &fakeReconciliador{}
	w := NewReconciliacionWorker(rec, nil)

	w.Process(context.Background(), nil, json.RawMessage(`{"pesaje_id": "no-es-uuid"}`))
	w.Process(context.Background(), nil, json.RawMessage(`no es json`))
	assert.Empty(t, rec.llamadas)
}
