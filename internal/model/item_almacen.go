package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoriaMineral es la categoría fija de los lotes creados desde balanza.
const CategoriaMineral = "MINERAL"

// ItemAlmacen es un item del catálogo de almacén. Cuando lo crea un pesaje
// representa un lote físico de mineral: su stock es un espejo del peso neto
// del pesaje (se sobrescribe en cada edición, no se acumula — modelo
// "un lote por pesaje").
type ItemAlmacen struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string          `gorm:"index;not null"`
	Categoria string          `gorm:"not null"`
	Stock     decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	Ubicacion string          `gorm:"not null;default:''"` // nombre de la cancha
	Origen    string          `gorm:"not null;default:''"`
	// PesajeID es el enlace 1:1 al pesaje que originó el lote.
	PesajeID  *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ItemAlmacen) TableName() string { return "items_almacen" }
