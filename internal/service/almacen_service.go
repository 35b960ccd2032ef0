package service

import (
	"context"
	"errors"

	"opmina/internal/dto"
	"opmina/internal/model"
	"opmina/internal/repository"

	"github.com/google/uuid"
)

// AlmacenService expone el catálogo de lotes de mineral y el historial de
// movimientos de cancha. Solo lectura: los lotes nacen y mueren con su
// pesaje, nunca por esta vía.
type AlmacenService interface {
	ObtenerItem(ctx context.Context, id uuid.UUID) (*dto.ItemAlmacenResponse, error)
	ListarItems(ctx context.Context, filter dto.ItemAlmacenFilter) (*dto.ItemAlmacenListResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoCanchaFilter) (*dto.MovimientoCanchaListResponse, error)
}

type almacenService struct {
	repo    repository.AlmacenRepository
	movRepo repository.MovimientoCanchaRepository
}

func NewAlmacenService(repo repository.AlmacenRepository, movRepo repository.MovimientoCanchaRepository) AlmacenService {
	return &almacenService{repo: repo, movRepo: movRepo}
}

func mapItemAlmacen(item *model.ItemAlmacen) *dto.ItemAlmacenResponse {
	resp := &dto.ItemAlmacenResponse{
		ID:        item.ID.String(),
		Nombre:    item.Nombre,
		Categoria: item.Categoria,
		Stock:     item.Stock,
		Ubicacion: item.Ubicacion,
		Origen:    item.Origen,
		CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if item.PesajeID != nil {
		id := item.PesajeID.String()
		resp.PesajeID = &id
	}
	return resp
}

func (s *almacenService) ObtenerItem(ctx context.Context, id uuid.UUID) (*dto.ItemAlmacenResponse, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("item de almacén no encontrado")
	}
	return mapItemAlmacen(item), nil
}

func (s *almacenService) ListarItems(ctx context.Context, filter dto.ItemAlmacenFilter) (*dto.ItemAlmacenListResponse, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ItemAlmacenResponse, 0, len(items))
	for i := range items {
		result = append(result, *mapItemAlmacen(&items[i]))
	}
	return &dto.ItemAlmacenListResponse{
		Data:  result,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *almacenService) ListarMovimientos(ctx context.Context, filter dto.MovimientoCanchaFilter) (*dto.MovimientoCanchaListResponse, error) {
	movs, total, err := s.movRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := make([]dto.MovimientoCanchaResponse, 0, len(movs))
	for i := range movs {
		m := &movs[i]
		resp := dto.MovimientoCanchaResponse{
			ID:            m.ID.String(),
			CanchaID:      m.CanchaID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if m.Cancha != nil {
			resp.CanchaNombre = m.Cancha.Nombre
		}
		if m.PesajeID != nil {
			id := m.PesajeID.String()
			resp.PesajeID = &id
		}
		result = append(result, resp)
	}
	return &dto.MovimientoCanchaListResponse{
		Data:  result,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
