package dto

import "github.com/shopspring/decimal"

type CrearCanchaRequest struct {
	Nombre string          `json:"nombre" validate:"required,min=2,max=100"`
	Stock  decimal.Decimal `json:"stock"`
}

type ActualizarCanchaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
}

// AjusteStockRequest applies a signed manual delta to a cancha.
// Negative results are allowed — planta corrects by another ajuste.
type AjusteStockRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=5"`
}

type CanchaResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Stock     decimal.Decimal `json:"stock"`
	UpdatedAt string          `json:"updated_at"`
}
