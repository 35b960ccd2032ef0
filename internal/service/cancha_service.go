package service

import (
	"context"
	"errors"

	"opmina/internal/dto"
	"opmina/internal/model"
	"opmina/internal/repository"
	"opmina/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CanchaService gestiona el maestro de canchas de acopio y los ajustes
// manuales de stock que hace planta.
type CanchaService interface {
	Crear(ctx context.Context, req dto.CrearCanchaRequest) (*dto.CanchaResponse, error)
	Listar(ctx context.Context) ([]dto.CanchaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CanchaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCanchaRequest) (*dto.CanchaResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjusteStockRequest) (*dto.CanchaResponse, error)
}

type canchaService struct {
	repo       repository.CanchaRepository
	movRepo    repository.MovimientoCanchaRepository
	dispatcher *worker.Dispatcher
}

func NewCanchaService(repo repository.CanchaRepository, movRepo repository.MovimientoCanchaRepository, dispatcher *worker.Dispatcher) CanchaService {
	return &canchaService{repo: repo, movRepo: movRepo, dispatcher: dispatcher}
}

func mapCancha(c *model.Cancha) *dto.CanchaResponse {
	return &dto.CanchaResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Stock:     c.Stock,
		UpdatedAt: c.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (s *canchaService) Crear(ctx context.Context, req dto.CrearCanchaRequest) (*dto.CanchaResponse, error) {
	c := &model.Cancha{
		ID:     uuid.New(),
		Nombre: req.Nombre,
		Stock:  req.Stock,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, errors.New("ya existe una cancha con ese nombre")
	}
	return mapCancha(c), nil
}

func (s *canchaService) Listar(ctx context.Context) ([]dto.CanchaResponse, error) {
	canchas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CanchaResponse, 0, len(canchas))
	for i := range canchas {
		result = append(result, *mapCancha(&canchas[i]))
	}
	return result, nil
}

func (s *canchaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CanchaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCanchaNoEncontrada
	}
	return mapCancha(c), nil
}

func (s *canchaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCanchaRequest) (*dto.CanchaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCanchaNoEncontrada
	}
	c.Nombre = req.Nombre
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return mapCancha(c), nil
}

// AjustarStock aplica un delta manual con su movimiento de auditoría, en la
// misma disciplina transaccional que los pesajes. El resultado puede quedar
// negativo; planta corrige con otro ajuste.
func (s *canchaService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjusteStockRequest) (*dto.CanchaResponse, error) {
	var cancha *model.Cancha

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		c, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrCanchaNoEncontrada
		}
		cancha = c

		if err := s.repo.AjustarStockTx(tx, c.ID, req.Delta); err != nil {
			return err
		}
		stockNuevo := c.Stock.Add(req.Delta)
		mov := &model.MovimientoCancha{
			ID:            uuid.New(),
			CanchaID:      c.ID,
			Tipo:          model.MovAjusteManual,
			Cantidad:      req.Delta,
			StockAnterior: c.Stock,
			StockNuevo:    stockNuevo,
			Motivo:        req.Motivo,
		}
		if err := s.movRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		c.Stock = stockNuevo
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && cancha.Stock.IsNegative() {
		_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
			CanchaNombre: cancha.Nombre,
			Stock:        cancha.Stock.String(),
		})
	}
	return mapCancha(cancha), nil
}
