package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// PesajeRequest is the payload for both POST and PUT /v1/pesajes.
// The form computes peso_neto (bruto - tara) before submitting; the backend
// persists the supplied value without recomputing it.
type PesajeRequest struct {
	TipoOperacion string          `json:"tipo_operacion" validate:"required,oneof=ingreso salida"`
	Producto      string          `json:"producto"       validate:"max=200"`
	CanchaID      *string         `json:"cancha_id"      validate:"omitempty,uuid"`
	CanchaNombre  string          `json:"cancha_nombre"  validate:"max=100"`
	PesoBruto     decimal.Decimal `json:"peso_bruto"     validate:"min=0"`
	PesoTara      decimal.Decimal `json:"peso_tara"      validate:"min=0"`
	PesoNeto      decimal.Decimal `json:"peso_neto"      validate:"min=0"`
	Cliente       string          `json:"cliente"        validate:"max=150"`
	Chofer        string          `json:"chofer"         validate:"max=150"`
	Placa         string          `json:"placa"          validate:"max=20"`
}

// EnviarTicketRequest is the payload for POST /v1/pesajes/{id}/ticket/enviar.
type EnviarTicketRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PesajeFilter is bound from the query string of GET /v1/pesajes.
type PesajeFilter struct {
	Fecha  string `form:"fecha"`  // YYYY-MM-DD; empty = todas
	Tipo   string `form:"tipo"`   // ingreso | salida | vacío = todos
	Cancha string `form:"cancha"` // cancha_id
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PesajeResponse struct {
	ID            string          `json:"id"`
	TipoOperacion string          `json:"tipo_operacion"`
	Producto      string          `json:"producto"`
	CanchaID      *string         `json:"cancha_id"`
	CanchaNombre  string          `json:"cancha_nombre"`
	PesoBruto     decimal.Decimal `json:"peso_bruto"`
	PesoTara      decimal.Decimal `json:"peso_tara"`
	PesoNeto      decimal.Decimal `json:"peso_neto"`
	Estado        string          `json:"estado"`
	ItemAlmacenID *string         `json:"item_almacen_id"`
	Cliente       string          `json:"cliente"`
	Chofer        string          `json:"chofer"`
	Placa         string          `json:"placa"`
	CreatedAt     string          `json:"created_at"`
}

// OperacionPesajeResponse is the uniform envelope the weighbridge forms
// consume for create/update/delete.
type OperacionPesajeResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Pesaje  *PesajeResponse `json:"pesaje,omitempty"`
}

type PesajeListResponse struct {
	Data  []PesajeResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
