package service

import (
	"context"
	"errors"
	"fmt"

	"opmina/internal/dto"
	"opmina/internal/model"
	"opmina/internal/repository"
	"opmina/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PesajeService interface {
	Registrar(ctx context.Context, req dto.PesajeRequest) (*dto.PesajeResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.PesajeRequest) (*dto.PesajeResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PesajeResponse, error)
	ListarPesajes(ctx context.Context, filter dto.PesajeFilter) (*dto.PesajeListResponse, error)

	// Reconciliar repairs the pesaje↔item link outside the edit flow (repair
	// job). Same idempotent routine the edit uses; returns whether a link
	// was created or repaired.
	Reconciliar(ctx context.Context, pesajeID uuid.UUID) (bool, error)
}

type pesajeService struct {
	repo        repository.PesajeRepository
	canchaRepo  repository.CanchaRepository
	almacenRepo repository.AlmacenRepository
	movRepo     repository.MovimientoCanchaRepository
	dispatcher  *worker.Dispatcher
}

func NewPesajeService(
	repo repository.PesajeRepository,
	canchaRepo repository.CanchaRepository,
	almacenRepo repository.AlmacenRepository,
	movRepo repository.MovimientoCanchaRepository,
	dispatcher *worker.Dispatcher,
) PesajeService {
	return &pesajeService{
		repo:        repo,
		canchaRepo:  canchaRepo,
		almacenRepo: almacenRepo,
		movRepo:     movRepo,
		dispatcher:  dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// stockAlerta records a cancha that closed the transaction below zero;
// the mail job is dispatched only after the commit lands.
type stockAlerta struct {
	canchaNombre string
	stock        decimal.Decimal
	pesajeID     uuid.UUID
}

// ── Registrar ────────────────────────────────────────────────────────────────
// Un pesaje nuevo, una transacción:
//   1. Lecturas: la cancha referenciada, solo si el ingreso la afecta.
//   2. Escrituras: pesaje (estado "aprobado"), lote de almacén si califica,
//      delta de stock sobre la cancha, movimiento de auditoría.
// Todo aterriza o nada aterriza.

func (s *pesajeService) Registrar(ctx context.Context, req dto.PesajeRequest) (*dto.PesajeResponse, error) {
	canchaID, err := parseCanchaID(req.CanchaID)
	if err != nil {
		return nil, err
	}

	var pesaje model.Pesaje
	var alertas []stockAlerta

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Fase de lectura — todo antes de cualquier escritura.
		var cancha *model.Cancha
		if req.TipoOperacion == model.OperacionIngreso && req.PesoNeto.IsPositive() && canchaID != nil {
			c, err := s.canchaRepo.FindByIDTx(tx, *canchaID)
			if err != nil {
				return ErrCanchaNoEncontrada
			}
			cancha = c
		}

		// Fase de escritura.
		pesaje = model.Pesaje{
			ID:            uuid.New(),
			TipoOperacion: req.TipoOperacion,
			Producto:      req.Producto,
			CanchaID:      canchaID,
			CanchaNombre:  req.CanchaNombre,
			PesoBruto:     req.PesoBruto,
			PesoTara:      req.PesoTara,
			PesoNeto:      req.PesoNeto,
			Estado:        model.EstadoAprobado,
			Cliente:       req.Cliente,
			Chofer:        req.Chofer,
			Placa:         req.Placa,
		}
		if cancha != nil {
			pesaje.CanchaNombre = cancha.Nombre
		}
		if err := s.repo.CreateTx(tx, &pesaje); err != nil {
			return err
		}

		if req.TipoOperacion == model.OperacionIngreso && req.Producto != "" && req.PesoNeto.IsPositive() {
			item := model.ItemAlmacen{
				ID:        uuid.New(),
				Nombre:    req.Producto,
				Categoria: model.CategoriaMineral,
				Stock:     req.PesoNeto,
				Ubicacion: pesaje.CanchaNombre,
				Origen:    origenDe(req.Cliente),
				PesajeID:  &pesaje.ID,
			}
			if err := s.almacenRepo.CreateTx(tx, &item); err != nil {
				return err
			}
			pesaje.ItemAlmacenID = &item.ID
			if err := s.repo.UpdateTx(tx, &pesaje); err != nil {
				return err
			}
		}

		if cancha != nil {
			motivo := fmt.Sprintf("Ingreso por pesaje %s", pesaje.Placa)
			if err := s.aplicarDeltaTx(tx, cancha, req.PesoNeto, model.MovIngreso, motivo, pesaje.ID, &alertas); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.despacharAlertas(ctx, alertas)
	return pesajeToResponse(&pesaje), nil
}

// ── Actualizar ───────────────────────────────────────────────────────────────
// La edición es la pieza dominante: puede cambiar tipo de operación, cancha y
// peso neto a la vez, y debe compensar el efecto anterior antes de aplicar el
// nuevo. Disciplina transaccional: capturar TODO el conjunto de lecturas antes
// de la primera escritura.

func (s *pesajeService) Actualizar(ctx context.Context, id uuid.UUID, req dto.PesajeRequest) (*dto.PesajeResponse, error) {
	nuevaCanchaID, err := parseCanchaID(req.CanchaID)
	if err != nil {
		return nil, err
	}

	var pesaje *model.Pesaje
	var alertas []stockAlerta

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Fase de lectura.
		p, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrPesajeNoEncontrado
		}
		pesaje = p
		viejoPeso := pesaje.PesoNeto
		viejaCanchaID := pesaje.CanchaID

		var viejaCancha, nuevaCancha *model.Cancha
		if req.TipoOperacion == model.OperacionIngreso {
			if viejaCanchaID != nil {
				c, err := s.canchaRepo.FindByIDTx(tx, *viejaCanchaID)
				if err != nil {
					return ErrCanchaNoEncontrada
				}
				viejaCancha = c
			}
			if nuevaCanchaID != nil {
				if viejaCanchaID != nil && *viejaCanchaID == *nuevaCanchaID {
					// Misma cancha: una sola lectura por transacción.
					nuevaCancha = viejaCancha
				} else {
					c, err := s.canchaRepo.FindByIDTx(tx, *nuevaCanchaID)
					if err != nil {
						return ErrCanchaNoEncontrada
					}
					nuevaCancha = c
				}
			}
		}

		// Fase de escritura: compensación de stock.
		if req.TipoOperacion == model.OperacionIngreso {
			if nuevaCancha != nil && viejaCancha != nil && viejaCancha.ID == nuevaCancha.ID {
				// Delta neto en una sola escritura — revertir y reaplicar por
				// separado duplicaría el conteo sobre el mismo campo.
				delta := req.PesoNeto.Sub(viejoPeso)
				if !delta.IsZero() {
					motivo := fmt.Sprintf("Edición de pesaje %s", pesaje.Placa)
					if err := s.aplicarDeltaTx(tx, nuevaCancha, delta, model.MovEdicion, motivo, pesaje.ID, &alertas); err != nil {
						return err
					}
				}
			} else {
				if viejaCancha != nil {
					motivo := fmt.Sprintf("Reversión por edición de pesaje %s", pesaje.Placa)
					if err := s.aplicarDeltaTx(tx, viejaCancha, viejoPeso.Neg(), model.MovReversion, motivo, pesaje.ID, &alertas); err != nil {
						return err
					}
				}
				if nuevaCancha != nil {
					motivo := fmt.Sprintf("Ingreso por pesaje %s", pesaje.Placa)
					if err := s.aplicarDeltaTx(tx, nuevaCancha, req.PesoNeto, model.MovIngreso, motivo, pesaje.ID, &alertas); err != nil {
						return err
					}
				}
			}
		}

		// Sobrescritura incondicional de los campos del pesaje.
		pesaje.TipoOperacion = req.TipoOperacion
		pesaje.Producto = req.Producto
		pesaje.CanchaID = nuevaCanchaID
		pesaje.CanchaNombre = req.CanchaNombre
		if nuevaCancha != nil {
			pesaje.CanchaNombre = nuevaCancha.Nombre
		}
		pesaje.PesoBruto = req.PesoBruto
		pesaje.PesoTara = req.PesoTara
		pesaje.PesoNeto = req.PesoNeto
		pesaje.Cliente = req.Cliente
		pesaje.Chofer = req.Chofer
		pesaje.Placa = req.Placa
		if err := s.repo.UpdateTx(tx, pesaje); err != nil {
			return err
		}

		// Sincronización del catálogo (espejo o backfill).
		return s.asegurarItemAlmacenTx(tx, pesaje)
	})
	if txErr != nil {
		return nil, txErr
	}

	s.despacharAlertas(ctx, alertas)
	return pesajeToResponse(pesaje), nil
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func (s *pesajeService) Eliminar(ctx context.Context, id uuid.UUID) error {
	var alertas []stockAlerta

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Fase de lectura.
		pesaje, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return ErrPesajeNoEncontrado
		}

		var cancha *model.Cancha
		if pesaje.TipoOperacion == model.OperacionIngreso && pesaje.CanchaID != nil {
			// Si la cancha ya no existe no hay stock que revertir.
			if c, err := s.canchaRepo.FindByIDTx(tx, *pesaje.CanchaID); err == nil {
				cancha = c
			}
		}

		// Fase de escritura: reversión, baja del pesaje, baja del lote.
		if cancha != nil {
			motivo := fmt.Sprintf("Reversión por eliminación de pesaje %s", pesaje.Placa)
			if err := s.aplicarDeltaTx(tx, cancha, pesaje.PesoNeto.Neg(), model.MovReversion, motivo, pesaje.ID, &alertas); err != nil {
				return err
			}
		}
		if err := s.repo.DeleteTx(tx, pesaje.ID); err != nil {
			return err
		}
		if pesaje.ItemAlmacenID != nil {
			if err := s.almacenRepo.DeleteTx(tx, *pesaje.ItemAlmacenID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.despacharAlertas(ctx, alertas)
	return nil
}

// ── Reconciliar ──────────────────────────────────────────────────────────────

// Reconciliar runs the catalog-sync routine as a standalone repair: reads the
// pesaje fresh and ensures its warehouse lot exists and mirrors it. Running it
// twice never creates a second item.
func (s *pesajeService) Reconciliar(ctx context.Context, pesajeID uuid.UUID) (bool, error) {
	reparado := false
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		pesaje, err := s.repo.FindByIDTx(tx, pesajeID)
		if err != nil {
			return worker.ErrPesajeDesaparecido
		}
		teniaItem := pesaje.ItemAlmacenID != nil
		if err := s.asegurarItemAlmacenTx(tx, pesaje); err != nil {
			return err
		}
		reparado = !teniaItem && pesaje.ItemAlmacenID != nil
		return nil
	})
	return reparado, txErr
}

// asegurarItemAlmacenTx mantiene el invariante pesaje↔lote dentro de la
// transacción en curso:
//   - con enlace: el item espeja al pesaje (nombre, ubicación, origen, y
//     stock = peso neto — sobrescrito, nunca acumulado: un lote por pesaje);
//   - sin enlace pero con lote huérfano (pesaje_id apunta acá): se re-enlaza;
//   - sin enlace y califica (ingreso, cancha resuelta, peso > 0): backfill.
func (s *pesajeService) asegurarItemAlmacenTx(tx *gorm.DB, pesaje *model.Pesaje) error {
	if pesaje.ItemAlmacenID != nil {
		item, err := s.almacenRepo.FindByIDTx(tx, *pesaje.ItemAlmacenID)
		if err == nil {
			s.espejarItem(item, pesaje)
			return s.almacenRepo.UpdateTx(tx, item)
		}
		// Enlace roto: el item fue eliminado por fuera. Cae al backfill.
	}

	if pesaje.TipoOperacion != model.OperacionIngreso || pesaje.CanchaNombre == "" || !pesaje.PesoNeto.IsPositive() {
		return nil
	}

	if item, err := s.almacenRepo.FindByPesajeIDTx(tx, pesaje.ID); err == nil {
		// Lote huérfano: existe pero el pesaje perdió la referencia.
		s.espejarItem(item, pesaje)
		if err := s.almacenRepo.UpdateTx(tx, item); err != nil {
			return err
		}
		pesaje.ItemAlmacenID = &item.ID
		return s.repo.UpdateTx(tx, pesaje)
	}

	item := model.ItemAlmacen{
		ID:        uuid.New(),
		Nombre:    pesaje.Producto,
		Categoria: model.CategoriaMineral,
		Stock:     pesaje.PesoNeto,
		Ubicacion: pesaje.CanchaNombre,
		Origen:    origenDe(pesaje.Cliente),
		PesajeID:  &pesaje.ID,
	}
	if err := s.almacenRepo.CreateTx(tx, &item); err != nil {
		return err
	}
	pesaje.ItemAlmacenID = &item.ID
	return s.repo.UpdateTx(tx, pesaje)
}

func (s *pesajeService) espejarItem(item *model.ItemAlmacen, pesaje *model.Pesaje) {
	item.Nombre = pesaje.Producto
	item.Stock = pesaje.PesoNeto
	item.Ubicacion = pesaje.CanchaNombre
	item.Origen = origenDe(pesaje.Cliente)
}

// aplicarDeltaTx applies a signed delta to the cancha and records the audit
// movement using the stock captured during the read phase.
func (s *pesajeService) aplicarDeltaTx(tx *gorm.DB, cancha *model.Cancha, delta decimal.Decimal, tipo, motivo string, pesajeID uuid.UUID, alertas *[]stockAlerta) error {
	if err := s.canchaRepo.AjustarStockTx(tx, cancha.ID, delta); err != nil {
		return err
	}
	stockNuevo := cancha.Stock.Add(delta)
	mov := &model.MovimientoCancha{
		ID:            uuid.New(),
		CanchaID:      cancha.ID,
		Tipo:          tipo,
		Cantidad:      delta,
		StockAnterior: cancha.Stock,
		StockNuevo:    stockNuevo,
		Motivo:        motivo,
		PesajeID:      &pesajeID,
	}
	if err := s.movRepo.CreateTx(tx, mov); err != nil {
		return err
	}
	// El stock puede quedar negativo — se permite, pero se avisa.
	if stockNuevo.IsNegative() {
		*alertas = append(*alertas, stockAlerta{
			canchaNombre: cancha.Nombre,
			stock:        stockNuevo,
			pesajeID:     pesajeID,
		})
	}
	cancha.Stock = stockNuevo
	return nil
}

// despacharAlertas enqueues negative-stock mails after the commit.
// Best effort — fire & forget.
func (s *pesajeService) despacharAlertas(ctx context.Context, alertas []stockAlerta) {
	if s.dispatcher == nil {
		return
	}
	for _, a := range alertas {
		payload := worker.AlertaStockPayload{
			CanchaNombre: a.canchaNombre,
			Stock:        a.stock.String(),
			PesajeID:     a.pesajeID.String(),
		}
		_ = s.dispatcher.EnqueueAlertaStock(ctx, payload)
	}
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *pesajeService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PesajeResponse, error) {
	pesaje, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPesajeNoEncontrado
	}
	return pesajeToResponse(pesaje), nil
}

func (s *pesajeService) ListarPesajes(ctx context.Context, filter dto.PesajeFilter) (*dto.PesajeListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pesajes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PesajeResponse, 0, len(pesajes))
	for i := range pesajes {
		items = append(items, *pesajeToResponse(&pesajes[i]))
	}
	return &dto.PesajeListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func parseCanchaID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, errors.New("cancha_id inválido")
	}
	return &id, nil
}

// origenDe: el origen del lote es la contraparte declarada, o la portería
// cuando el pesaje no trae cliente.
func origenDe(cliente string) string {
	if cliente != "" {
		return cliente
	}
	return "Porteria"
}

func pesajeToResponse(p *model.Pesaje) *dto.PesajeResponse {
	resp := &dto.PesajeResponse{
		ID:            p.ID.String(),
		TipoOperacion: p.TipoOperacion,
		Producto:      p.Producto,
		CanchaNombre:  p.CanchaNombre,
		PesoBruto:     p.PesoBruto,
		PesoTara:      p.PesoTara,
		PesoNeto:      p.PesoNeto,
		Estado:        p.Estado,
		Cliente:       p.Cliente,
		Chofer:        p.Chofer,
		Placa:         p.Placa,
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if p.CanchaID != nil {
		id := p.CanchaID.String()
		resp.CanchaID = &id
	}
	if p.ItemAlmacenID != nil {
		id := p.ItemAlmacenID.String()
		resp.ItemAlmacenID = &id
	}
	return resp
}
