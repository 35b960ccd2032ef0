package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cancha es un patio de acopio de mineral, llevado solo como tonelaje
// agregado. El stock se mantiene por deltas compensatorios desde el ciclo de
// vida de los pesajes, nunca se recalcula desde cero. Puede quedar negativo:
// los ajustes manuales desde planta no están restringidos.
type Cancha struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"uniqueIndex;not null"`
	Stock     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cancha) TableName() string { return "canchas" }
