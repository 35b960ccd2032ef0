package dto

import "github.com/shopspring/decimal"

// ItemAlmacenFilter is bound from the query string of GET /v1/almacen/items.
type ItemAlmacenFilter struct {
	Categoria string `form:"categoria"`
	Ubicacion string `form:"ubicacion"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ItemAlmacenResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Categoria string          `json:"categoria"`
	Stock     decimal.Decimal `json:"stock"`
	Ubicacion string          `json:"ubicacion"`
	Origen    string          `json:"origen"`
	PesajeID  *string         `json:"pesaje_id"`
	CreatedAt string          `json:"created_at"`
}

type ItemAlmacenListResponse struct {
	Data  []ItemAlmacenResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// MovimientoCanchaFilter is bound from GET /v1/almacen/movimientos.
type MovimientoCanchaFilter struct {
	CanchaID string `form:"cancha_id"`
	Tipo     string `form:"tipo"`
	Page     int    `form:"page,default=1"    validate:"min=1"`
	Limit    int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoCanchaResponse struct {
	ID            string          `json:"id"`
	CanchaID      string          `json:"cancha_id"`
	CanchaNombre  string          `json:"cancha_nombre"`
	Tipo          string          `json:"tipo"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	StockAnterior decimal.Decimal `json:"stock_anterior"`
	StockNuevo    decimal.Decimal `json:"stock_nuevo"`
	Motivo        string          `json:"motivo"`
	PesajeID      *string         `json:"pesaje_id"`
	CreatedAt     string          `json:"created_at"`
}

type MovimientoCanchaListResponse struct {
	Data  []MovimientoCanchaResponse `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}
