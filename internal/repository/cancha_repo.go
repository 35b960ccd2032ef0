package repository

import (
	"context"

	"opmina/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CanchaRepository interface {
	Create(ctx context.Context, c *model.Cancha) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cancha, error)
	List(ctx context.Context) ([]model.Cancha, error)
	Update(ctx context.Context, c *model.Cancha) error

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cancha, error)

	// AjustarStockTx applies a signed delta to the aggregate tonnage.
	// The UPDATE is expressed relative to the stored value so concurrent
	// pesajes on the same cancha serialize at the row instead of clobbering
	// each other's read.
	AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error

	DB() *gorm.DB
}

type canchaRepo struct{ db *gorm.DB }

func NewCanchaRepository(db *gorm.DB) CanchaRepository { return &canchaRepo{db: db} }

func (r *canchaRepo) Create(ctx context.Context, c *model.Cancha) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *canchaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cancha, error) {
	var c model.Cancha
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *canchaRepo) List(ctx context.Context) ([]model.Cancha, error) {
	var canchas []model.Cancha
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&canchas).Error
	return canchas, err
}

func (r *canchaRepo) Update(ctx context.Context, c *model.Cancha) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *canchaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Cancha, error) {
	var c model.Cancha
	err := tx.First(&c, id).Error
	return &c, err
}

func (r *canchaRepo) AjustarStockTx(tx *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	return tx.Model(&model.Cancha{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *canchaRepo) DB() *gorm.DB { return r.db }
