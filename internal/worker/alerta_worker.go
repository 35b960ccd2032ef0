package worker

// alerta_worker.go
// Processes negative-stock alert jobs from QueueAlerta.
// Mails the configured supervisor when a cancha closes a transaction below
// zero. Observation only — nothing blocks the operation that caused it.

import (
	"context"
	"encoding/json"
	"fmt"

	"opmina/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlerta.
type AlertaStockPayload struct {
	CanchaNombre string `json:"cancha_nombre"`
	Stock        string `json:"stock"` // decimal serialized as string
	PesajeID     string `json:"pesaje_id,omitempty"`
}

type AlertaWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewAlertaWorker(mailer *infra.Mailer, to string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, to: to}
}

func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Warn().Msg("alerta_worker: ALERTA_EMAIL no configurado — alerta descartada")
		return
	}

	subject := fmt.Sprintf("[OpMina] Stock negativo en cancha %s", payload.CanchaNombre)
	body := fmt.Sprintf(
		"La cancha %s quedó con stock %s t luego del pesaje %s.\n"+
			"Revise los últimos movimientos y aplique un ajuste manual si corresponde.",
		payload.CanchaNombre, payload.Stock, payload.PesajeID)

	if err := w.mailer.SendAlerta(w.to, subject, body); err != nil {
		log.Error().Err(err).Str("cancha", payload.CanchaNombre).Msg("alerta_worker: failed to send email")
		return
	}
	log.Info().Str("cancha", payload.CanchaNombre).Msg("alerta_worker: alerta enviada")
}
