package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tipos de operación de balanza.
const (
	OperacionIngreso = "ingreso"
	OperacionSalida  = "salida"
)

// Estados de un pesaje. El registro siempre nace "aprobado"; los otros dos
// estados existen en el esquema para las pantallas de supervisión pero ningún
// flujo del backend los produce hoy.
const (
	EstadoAprobado  = "aprobado"
	EstadoRechazado = "rechazado"
	EstadoPendiente = "pendiente"
)

// Pesaje es el registro de balanza de portería: un movimiento de camión
// (ingreso o salida) con sus pesos bruto/tara/neto en toneladas.
// PesoNeto llega calculado desde el formulario (bruto - tara) y se persiste
// tal cual — la balanza es la fuente de verdad, no este servicio.
//
// Un ingreso con cancha asignada alimenta el stock de esa cancha; un ingreso
// con producto declarado genera además su lote en el catálogo de almacén
// (ver ItemAlmacen). Ambos efectos se aplican en la misma transacción que
// crea/edita/elimina el pesaje.
type Pesaje struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TipoOperacion string    `gorm:"type:varchar(10);not null;index"` // "ingreso" | "salida"
	Producto      string    `gorm:"not null;default:''"`
	CanchaID      *uuid.UUID `gorm:"type:uuid;index"`
	CanchaNombre  string     `gorm:"not null;default:''"`
	PesoBruto     decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PesoTara      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	PesoNeto      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Estado        string          `gorm:"type:varchar(20);not null;default:'aprobado'"`
	// ItemAlmacenID enlaza el lote de almacén creado por este pesaje.
	// El item es propiedad del pesaje: nace, se edita y muere con él.
	ItemAlmacenID *uuid.UUID `gorm:"type:uuid"`
	Cliente       string     `gorm:"not null;default:''"`
	Chofer        string     `gorm:"not null;default:''"`
	Placa         string     `gorm:"not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Cancha *Cancha `gorm:"foreignKey:CanchaID"`
}

// TableName overrides GORM's default pluralization.
func (Pesaje) TableName() string { return "pesajes" }
