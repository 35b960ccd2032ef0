package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento de cancha.
const (
	MovIngreso      = "ingreso"
	MovEdicion      = "edicion"
	MovReversion    = "reversion"
	MovAjusteManual = "ajuste_manual"
)

// MovimientoCancha registra cada cambio de stock en una cancha: el delta
// aplicado y el antes/después observado dentro de la transacción que lo
// aplicó. Es pista de auditoría pura; ninguna lógica lo consulta para
// calcular stock.
type MovimientoCancha struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CanchaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo          string          `gorm:"not null"` // "ingreso" | "edicion" | "reversion" | "ajuste_manual"
	Cantidad      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positivo = entra, negativo = sale
	StockAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	StockNuevo    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo        string
	PesajeID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time

	Cancha *Cancha `gorm:"foreignKey:CanchaID"`
}

// TableName overrides GORM's default pluralization (movimiento_canchas → movimientos_cancha).
func (MovimientoCancha) TableName() string { return "movimientos_cancha" }
