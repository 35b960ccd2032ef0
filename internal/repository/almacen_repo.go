package repository

import (
	"context"

	"opmina/internal/dto"
	"opmina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlmacenRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.ItemAlmacen, error)
	List(ctx context.Context, filter dto.ItemAlmacenFilter) ([]model.ItemAlmacen, int64, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, item *model.ItemAlmacen) error
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ItemAlmacen, error)
	FindByPesajeIDTx(tx *gorm.DB, pesajeID uuid.UUID) (*model.ItemAlmacen, error)
	UpdateTx(tx *gorm.DB, item *model.ItemAlmacen) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
}

type almacenRepo struct{ db *gorm.DB }

func NewAlmacenRepository(db *gorm.DB) AlmacenRepository { return &almacenRepo{db: db} }

func (r *almacenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ItemAlmacen, error) {
	var item model.ItemAlmacen
	err := r.db.WithContext(ctx).First(&item, id).Error
	return &item, err
}

func (r *almacenRepo) List(ctx context.Context, filter dto.ItemAlmacenFilter) ([]model.ItemAlmacen, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ItemAlmacen{})
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Ubicacion != "" {
		q = q.Where("ubicacion = ?", filter.Ubicacion)
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

	var items []model.ItemAlmacen
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *almacenRepo) CreateTx(tx *gorm.DB, item *model.ItemAlmacen) error {
	return tx.Create(item).Error
}

func (r *almacenRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.ItemAlmacen, error) {
	var item model.ItemAlmacen
	err := tx.First(&item, id).Error
	return &item, err
}

func (r *almacenRepo) FindByPesajeIDTx(tx *gorm.DB, pesajeID uuid.UUID) (*model.ItemAlmacen, error) {
	var item model.ItemAlmacen
	err := tx.Where("pesaje_id = ?", pesajeID).First(&item).Error
	return &item, err
}

func (r *almacenRepo) UpdateTx(tx *gorm.DB, item *model.ItemAlmacen) error {
	return tx.Save(item).Error
}

func (r *almacenRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.ItemAlmacen{}, id).Error
}
