package repository

import (
	"context"

	"opmina/internal/dto"
	"opmina/internal/model"

	"gorm.io/gorm"
)

type MovimientoCanchaRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoCancha) error
	List(ctx context.Context, filter dto.MovimientoCanchaFilter) ([]model.MovimientoCancha, int64, error)
}

type movimientoCanchaRepo struct{ db *gorm.DB }

func NewMovimientoCanchaRepository(db *gorm.DB) MovimientoCanchaRepository {
	return &movimientoCanchaRepo{db: db}
}

func (r *movimientoCanchaRepo) CreateTx(tx *gorm.DB, m *model.MovimientoCancha) error {
	return tx.Create(m).Error
}

func (r *movimientoCanchaRepo) List(ctx context.Context, filter dto.MovimientoCanchaFilter) ([]model.MovimientoCancha, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoCancha{}).
		Preload("Cancha")
	if filter.CanchaID != "" {
		q = q.Where("cancha_id = ?", filter.CanchaID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
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
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movimientos []model.MovimientoCancha
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}
