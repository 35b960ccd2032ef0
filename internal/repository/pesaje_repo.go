package repository

import (
	"context"
	"time"

	"opmina/internal/dto"
	"opmina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PesajeRepository defines the data access contract for weighbridge records.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type PesajeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pesaje, error)
	List(ctx context.Context, filter dto.PesajeFilter) ([]model.Pesaje, int64, error)

	// ListSinItemAlmacen returns ingreso pesajes that qualify for a warehouse
	// lot but carry no link — the work queue of the reconciliation cron.
	ListSinItemAlmacen(ctx context.Context, limit int) ([]model.Pesaje, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, p *model.Pesaje) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pesaje, error)
	UpdateTx(tx *gorm.DB, p *model.Pesaje) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pesajeRepo struct{ db *gorm.DB }

func NewPesajeRepository(db *gorm.DB) PesajeRepository { return &pesajeRepo{db: db} }

func (r *pesajeRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pesaje, error) {
	var p model.Pesaje
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *pesajeRepo) List(ctx context.Context, filter dto.PesajeFilter) ([]model.Pesaje, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Pesaje{})

	if filter.Fecha != "" {
		if day, err := time.Parse("2006-01-02", filter.Fecha); err == nil {
			q = q.Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
		}
	}
	if filter.Tipo != "" {
		q = q.Where("tipo_operacion = ?", filter.Tipo)
	}
	if filter.Cancha != "" {
		q = q.Where("cancha_id = ?", filter.Cancha)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	var pesajes []model.Pesaje
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&pesajes).Error
	return pesajes, total, err
}

func (r *pesajeRepo) ListSinItemAlmacen(ctx context.Context, limit int) ([]model.Pesaje, error) {
	var pesajes []model.Pesaje
	err := r.db.WithContext(ctx).
		Where("tipo_operacion = ?", model.OperacionIngreso).
		Where("item_almacen_id IS NULL").
		Where("producto <> ''").
		Where("cancha_nombre <> ''").
		Where("peso_neto > 0").
		Order("created_at ASC").
		Limit(limit).
		Find(&pesajes).Error
	return pesajes, err
}

func (r *pesajeRepo) CreateTx(tx *gorm.DB, p *model.Pesaje) error {
	return tx.Create(p).Error
}

func (r *pesajeRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Pesaje, error) {
	var p model.Pesaje
	err := tx.First(&p, id).Error
	return &p, err
}

func (r *pesajeRepo) UpdateTx(tx *gorm.DB, p *model.Pesaje) error {
	return tx.Save(p).Error
}

func (r *pesajeRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Pesaje{}, id).Error
}

func (r *pesajeRepo) DB() *gorm.DB { return r.db }
