package service_test

import (
	"context"
	"errors"
	"testing"

	"opmina/internal/dto"
	"opmina/internal/model"
	"opmina/internal/repository"
	"opmina/internal/service"
	"opmina/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory repository stubs ───────────────────────────────────────────────
// DB() returns nil so the service runs its transaction body directly against
// the stubs. The read-phase-then-write-phase discipline keeps abort semantics
// observable: a failed read happens before any stub mutation.

type stubPesajeRepo struct {
	pesajes map[uuid.UUID]*model.Pesaje
}

func newStubPesajeRepo() *stubPesajeRepo {
	return &stubPesajeRepo{pesajes: make(map[uuid.UUID]*model.Pesaje)}
}

func (r *stubPesajeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pesaje, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubPesajeRepo) List(_ context.Context, _ dto.PesajeFilter) ([]model.Pesaje, int64, error) {
	result := make([]model.Pesaje, 0, len(r.pesajes))
	for _, p := range r.pesajes {
		result = append(result, *p)
	}
	return result, int64(len(result)), nil
}

func (r *stubPesajeRepo) ListSinItemAlmacen(_ context.Context, limit int) ([]model.Pesaje, error) {
	var result []model.Pesaje
	for _, p := range r.pesajes {
		if len(result) == limit {
			break
		}
		if p.TipoOperacion == model.OperacionIngreso && p.ItemAlmacenID == nil &&
			p.Producto != "" && p.CanchaNombre != "" && p.PesoNeto.IsPositive() {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *stubPesajeRepo) CreateTx(_ *gorm.DB, p *model.Pesaje) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	r.pesajes[p.ID] = &stored
	return nil
}

func (r *stubPesajeRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Pesaje, error) {
	p, ok := r.pesajes[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copia := *p
	return &copia, nil
}

func (r *stubPesajeRepo) UpdateTx(_ *gorm.DB, p *model.Pesaje) error {
	if _, ok := r.pesajes[p.ID]; !ok {
		return errors.New("record not found")
	}
	stored := *p
	r.pesajes[p.ID] = &stored
	return nil
}

func (r *stubPesajeRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.pesajes, id)
	return nil
}

func (r *stubPesajeRepo) DB() *gorm.DB { return nil }

var _ repository.PesajeRepository = (*stubPesajeRepo)(nil)

type stubCanchaRepo struct {
	canchas map[uuid.UUID]*model.Cancha
}

func newStubCanchaRepo() *stubCanchaRepo {
	return &stubCanchaRepo{canchas: make(map[uuid.UUID]*model.Cancha)}
}

func (r *stubCanchaRepo) Create(_ context.Context, c *model.Cancha) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	r.canchas[c.ID] = &stored
	return nil
}

func (r *stubCanchaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cancha, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubCanchaRepo) List(_ context.Context) ([]model.Cancha, error) {
	result := make([]model.Cancha, 0, len(r.canchas))
	for _, c := range r.canchas {
		result = append(result, *c)
	}
	return result, nil
}

func (r *stubCanchaRepo) Update(_ context.Context, c *model.Cancha) error {
	stored := *c
	r.canchas[c.ID] = &stored
	return nil
}

// FindByIDTx returns a copy: the service captures the read-phase stock and
// AjustarStockTx mutates the stored row, mirroring how a relative UPDATE
// behaves against a snapshot read.
func (r *stubCanchaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Cancha, error) {
	c, ok := r.canchas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copia := *c
	return &copia, nil
}

func (r *stubCanchaRepo) AjustarStockTx(_ *gorm.DB, id uuid.UUID, delta decimal.Decimal) error {
	c, ok := r.canchas[id]
	if !ok {
		return errors.New("record not found")
	}
	c.Stock = c.Stock.Add(delta)
	return nil
}

func (r *stubCanchaRepo) DB() *gorm.DB { return nil }

var _ repository.CanchaRepository = (*stubCanchaRepo)(nil)

type stubAlmacenRepo struct {
	items map[uuid.UUID]*model.ItemAlmacen
}

func newStubAlmacenRepo() *stubAlmacenRepo {
	return &stubAlmacenRepo{items: make(map[uuid.UUID]*model.ItemAlmacen)}
}

func (r *stubAlmacenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ItemAlmacen, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubAlmacenRepo) List(_ context.Context, _ dto.ItemAlmacenFilter) ([]model.ItemAlmacen, int64, error) {
	result := make([]model.ItemAlmacen, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	return result, int64(len(result)), nil
}

func (r *stubAlmacenRepo) CreateTx(_ *gorm.DB, item *model.ItemAlmacen) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *stubAlmacenRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.ItemAlmacen, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copia := *item
	return &copia, nil
}

func (r *stubAlmacenRepo) FindByPesajeIDTx(_ *gorm.DB, pesajeID uuid.UUID) (*model.ItemAlmacen, error) {
	for _, item := range r.items {
		if item.PesajeID != nil && *item.PesajeID == pesajeID {
			copia := *item
			return &copia, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubAlmacenRepo) UpdateTx(_ *gorm.DB, item *model.ItemAlmacen) error {
	stored := *item
	r.items[item.ID] = &stored
	return nil
}

func (r *stubAlmacenRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

var _ repository.AlmacenRepository = (*stubAlmacenRepo)(nil)

type stubMovimientoRepo struct {
	movimientos []model.MovimientoCancha
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoCancha) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ dto.MovimientoCanchaFilter) ([]model.MovimientoCancha, int64, error) {
	return r.movimientos, int64(len(r.movimientos)), nil
}

var _ repository.MovimientoCanchaRepository = (*stubMovimientoRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

type fixture struct {
	pesajes *stubPesajeRepo
	canchas *stubCanchaRepo
	almacen *stubAlmacenRepo
	movs    *stubMovimientoRepo
	svc     service.PesajeService
}

func newFixture() *fixture {
	f := &fixture{
		pesajes: newStubPesajeRepo(),
		canchas: newStubCanchaRepo(),
		almacen: newStubAlmacenRepo(),
		movs:    &stubMovimientoRepo{},
	}
	f.svc = service.NewPesajeService(f.pesajes, f.canchas, f.almacen, f.movs, nil)
	return f
}

func (f *fixture) seedCancha(nombre string, stock float64) *model.Cancha {
	c := &model.Cancha{
		ID:     uuid.New(),
		Nombre: nombre,
		Stock:  decimal.NewFromFloat(stock),
	}
	f.canchas.canchas[c.ID] = c
	return c
}

func (f *fixture) stockDe(id uuid.UUID) decimal.Decimal {
	return f.canchas.canchas[id].Stock
}

func ingresoReq(canchaID uuid.UUID, producto string, neto float64) dto.PesajeRequest {
	id := canchaID.String()
	return dto.PesajeRequest{
		TipoOperacion: model.OperacionIngreso,
		Producto:      producto,
		CanchaID:      &id,
		PesoBruto:     decimal.NewFromFloat(neto + 12),
		PesoTara:      decimal.NewFromFloat(12),
		PesoNeto:      decimal.NewFromFloat(neto),
		Cliente:       "Minera Andes SAC",
		Chofer:        "J. Quispe",
		Placa:         "ABC-123",
	}
}

// ── Registrar ────────────────────────────────────────────────────────────────

func TestRegistrarIngresoCompleto(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	resp, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 25.5))
	require.NoError(t, err)

	assert.Equal(t, model.EstadoAprobado, resp.Estado)
	assert.Equal(t, "Cancha Norte", resp.CanchaNombre)
	require.NotNil(t, resp.ItemAlmacenID)

	// Stock de cancha sumado
	assert.Equal(t, "125.5", f.stockDe(cancha.ID).String())

	// Lote de almacén espeja el pesaje
	itemID := uuid.MustParse(*resp.ItemAlmacenID)
	item := f.almacen.items[itemID]
	require.NotNil(t, item)
	assert.Equal(t, "Mineral de Cobre", item.Nombre)
	assert.Equal(t, model.CategoriaMineral, item.Categoria)
	assert.Equal(t, "25.5", item.Stock.String())
	assert.Equal(t, "Cancha Norte", item.Ubicacion)
	assert.Equal(t, "Minera Andes SAC", item.Origen)

	// Movimiento de auditoría con antes/después
	require.Len(t, f.movs.movimientos, 1)
	mov := f.movs.movimientos[0]
	assert.Equal(t, model.MovIngreso, mov.Tipo)
	assert.Equal(t, "100", mov.StockAnterior.String())
	assert.Equal(t, "125.5", mov.StockNuevo.String())
}

func TestRegistrarSalidaNoTocaStock(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Sur", 40)

	id := cancha.ID.String()
	_, err := f.svc.Registrar(context.Background(), dto.PesajeRequest{
		TipoOperacion: model.OperacionSalida,
		Producto:      "Mineral de Zinc",
		CanchaID:      &id,
		PesoNeto:      decimal.NewFromFloat(10),
	})
	require.NoError(t, err)

	assert.Equal(t, "40", f.stockDe(cancha.ID).String())
	assert.Empty(t, f.almacen.items)
	assert.Empty(t, f.movs.movimientos)
}

func TestRegistrarCanchaInexistente(t *testing.T) {
	f := newFixture()
	fantasma := uuid.New().String()

	_, err := f.svc.Registrar(context.Background(), dto.PesajeRequest{
		TipoOperacion: model.OperacionIngreso,
		Producto:      "Mineral de Plata",
		CanchaID:      &fantasma,
		PesoNeto:      decimal.NewFromFloat(5),
	})
	require.ErrorIs(t, err, service.ErrCanchaNoEncontrada)

	// La lectura falló antes de cualquier escritura: nada persistió
	assert.Empty(t, f.pesajes.pesajes)
	assert.Empty(t, f.almacen.items)
	assert.Empty(t, f.movs.movimientos)
}

func TestRegistrarSinProductoNoCreaItem(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Este", 0)

	req := ingresoReq(cancha.ID, "", 8)
	resp, err := f.svc.Registrar(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, resp.ItemAlmacenID)
	assert.Empty(t, f.almacen.items)
	// El stock de cancha sí se mueve aunque no haya lote
	assert.Equal(t, "8", f.stockDe(cancha.ID).String())
}

func TestRegistrarNetoCeroNoTocaStock(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	resp, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 0))
	require.NoError(t, err)

	// Neto cero: el pesaje queda registrado pero no hay delta, lote ni movimiento
	assert.Equal(t, "100", f.stockDe(cancha.ID).String())
	assert.Nil(t, resp.ItemAlmacenID)
	assert.Empty(t, f.almacen.items)
	assert.Empty(t, f.movs.movimientos)
	assert.Len(t, f.pesajes.pesajes, 1)
}

func TestRegistrarSinCanchaNoTocaStock(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	req := ingresoReq(cancha.ID, "Mineral de Cobre", 15)
	req.CanchaID = nil
	resp, err := f.svc.Registrar(context.Background(), req)
	require.NoError(t, err)

	// Sin cancha referenciada ninguna cancha se mueve ni se audita...
	assert.Equal(t, "100", f.stockDe(cancha.ID).String())
	assert.Empty(t, f.movs.movimientos)

	// ...pero el lote sí se crea: ingreso con producto y neto positivo
	require.NotNil(t, resp.ItemAlmacenID)
	assert.Len(t, f.almacen.items, 1)
}

// ── Actualizar ───────────────────────────────────────────────────────────────

func TestActualizarMismaCanchaAplicaDeltaNeto(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 25.5))
	require.NoError(t, err)

	req := ingresoReq(cancha.ID, "Mineral de Cobre", 30)
	_, err = f.svc.Actualizar(context.Background(), uuid.MustParse(creado.ID), req)
	require.NoError(t, err)

	// Un solo delta neto: nunca se suma el neto nuevo completo encima del viejo
	assert.Equal(t, "130", f.stockDe(cancha.ID).String())

	require.Len(t, f.movs.movimientos, 2)
	edicion := f.movs.movimientos[1]
	assert.Equal(t, model.MovEdicion, edicion.Tipo)
	assert.Equal(t, "4.5", edicion.Cantidad.String())

	// El lote espeja el nuevo neto (sobrescrito, no acumulado)
	itemID := uuid.MustParse(*creado.ItemAlmacenID)
	assert.Equal(t, "30", f.almacen.items[itemID].Stock.String())
}

func TestActualizarNetoSinCambioNoGeneraMovimiento(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 25.5))
	require.NoError(t, err)

	_, err = f.svc.Actualizar(context.Background(), uuid.MustParse(creado.ID), ingresoReq(cancha.ID, "Mineral de Cobre", 25.5))
	require.NoError(t, err)

	assert.Equal(t, "125.5", f.stockDe(cancha.ID).String())
	assert.Len(t, f.movs.movimientos, 1) // solo el ingreso original
}

func TestActualizarMoverDeCancha(t *testing.T) {
	f := newFixture()
	origen := f.seedCancha("Cancha Norte", 100)
	destino := f.seedCancha("Cancha Sur", 50)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(origen.ID, "Mineral de Cobre", 20))
	require.NoError(t, err)

	resp, err := f.svc.Actualizar(context.Background(), uuid.MustParse(creado.ID), ingresoReq(destino.ID, "Mineral de Cobre", 35))
	require.NoError(t, err)

	// Reversión completa en el origen, aplicación completa en el destino
	assert.Equal(t, "100", f.stockDe(origen.ID).String())
	assert.Equal(t, "85", f.stockDe(destino.ID).String())
	assert.Equal(t, "Cancha Sur", resp.CanchaNombre)

	require.Len(t, f.movs.movimientos, 3)
	assert.Equal(t, model.MovReversion, f.movs.movimientos[1].Tipo)
	assert.Equal(t, "-20", f.movs.movimientos[1].Cantidad.String())
	assert.Equal(t, model.MovIngreso, f.movs.movimientos[2].Tipo)

	// La ubicación del lote sigue a la cancha nueva
	itemID := uuid.MustParse(*creado.ItemAlmacenID)
	assert.Equal(t, "Cancha Sur", f.almacen.items[itemID].Ubicacion)
}

func TestActualizarCanchaDestinoInexistente(t *testing.T) {
	f := newFixture()
	origen := f.seedCancha("Cancha Norte", 100)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(origen.ID, "Mineral de Cobre", 20))
	require.NoError(t, err)

	fantasma := uuid.New()
	_, err = f.svc.Actualizar(context.Background(), uuid.MustParse(creado.ID), ingresoReq(fantasma, "Mineral de Cobre", 20))
	require.ErrorIs(t, err, service.ErrCanchaNoEncontrada)

	// Aborto antes de escribir: el origen no fue revertido
	assert.Equal(t, "120", f.stockDe(origen.ID).String())
	p := f.pesajes.pesajes[uuid.MustParse(creado.ID)]
	assert.Equal(t, origen.ID, *p.CanchaID)
}

func TestActualizarPesajeInexistente(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	_, err := f.svc.Actualizar(context.Background(), uuid.New(), ingresoReq(cancha.ID, "Mineral de Cobre", 20))
	require.ErrorIs(t, err, service.ErrPesajeNoEncontrado)
}

func TestActualizarCambioASalidaNoRevierte(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 20))
	require.NoError(t, err)

	req := ingresoReq(cancha.ID, "Mineral de Cobre", 20)
	req.TipoOperacion = model.OperacionSalida
	resp, err := f.svc.Actualizar(context.Background(), uuid.MustParse(creado.ID), req)
	require.NoError(t, err)

	// Cambiar a salida no compensa stock: la corrección llega por ajuste manual
	assert.Equal(t, "120", f.stockDe(cancha.ID).String())
	assert.Equal(t, model.OperacionSalida, resp.TipoOperacion)
	assert.Len(t, f.movs.movimientos, 1)
}

// ── Eliminar ─────────────────────────────────────────────────────────────────

func TestEliminarRevierteYBorraLote(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 25.5))
	require.NoError(t, err)

	err = f.svc.Eliminar(context.Background(), uuid.MustParse(creado.ID))
	require.NoError(t, err)

	assert.Equal(t, "100", f.stockDe(cancha.ID).String())
	assert.Empty(t, f.pesajes.pesajes)
	assert.Empty(t, f.almacen.items)

	require.Len(t, f.movs.movimientos, 2)
	assert.Equal(t, model.MovReversion, f.movs.movimientos[1].Tipo)
	assert.Equal(t, "-25.5", f.movs.movimientos[1].Cantidad.String())
}

func TestEliminarConCanchaDesaparecida(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 100)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 25.5))
	require.NoError(t, err)

	// La cancha fue dada de baja por fuera: la eliminación sigue sin reversión
	delete(f.canchas.canchas, cancha.ID)

	err = f.svc.Eliminar(context.Background(), uuid.MustParse(creado.ID))
	require.NoError(t, err)
	assert.Empty(t, f.pesajes.pesajes)
	assert.Empty(t, f.almacen.items)
}

func TestEliminarPermiteStockNegativo(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 0)

	// Planta ya retiró tonelaje: el stock quedó por debajo del neto registrado
	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 5))
	require.NoError(t, err)
	f.canchas.canchas[cancha.ID].Stock = decimal.NewFromFloat(2)

	err = f.svc.Eliminar(context.Background(), uuid.MustParse(creado.ID))
	require.NoError(t, err)

	assert.Equal(t, "-3", f.stockDe(cancha.ID).String())
}

func TestEliminarPesajeInexistente(t *testing.T) {
	f := newFixture()
	err := f.svc.Eliminar(context.Background(), uuid.New())
	require.ErrorIs(t, err, service.ErrPesajeNoEncontrado)
}

// ── Reconciliar ──────────────────────────────────────────────────────────────

func TestReconciliarBackfillIdempotente(t *testing.T) {
	f := newFixture()

	// Pesaje anterior al catálogo: califica pero no tiene lote
	p := &model.Pesaje{
		ID:            uuid.New(),
		TipoOperacion: model.OperacionIngreso,
		Producto:      "Mineral de Plomo",
		CanchaNombre:  "Cancha Oeste",
		PesoNeto:      decimal.NewFromFloat(12),
		Estado:        model.EstadoAprobado,
	}
	f.pesajes.pesajes[p.ID] = p

	reparado, err := f.svc.Reconciliar(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, reparado)
	require.Len(t, f.almacen.items, 1)
	require.NotNil(t, f.pesajes.pesajes[p.ID].ItemAlmacenID)

	// Segunda corrida: sin segundo lote, sin cambio de enlace
	reparado, err = f.svc.Reconciliar(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, reparado)
	assert.Len(t, f.almacen.items, 1)

	// Origen sin cliente cae a portería
	for _, item := range f.almacen.items {
		assert.Equal(t, "Porteria", item.Origen)
	}
}

func TestReconciliarRelinkLoteHuerfano(t *testing.T) {
	f := newFixture()
	cancha := f.seedCancha("Cancha Norte", 0)

	creado, err := f.svc.Registrar(context.Background(), ingresoReq(cancha.ID, "Mineral de Cobre", 9))
	require.NoError(t, err)
	pID := uuid.MustParse(creado.ID)

	// Se pierde la referencia en el pesaje pero el lote sobrevive
	f.pesajes.pesajes[pID].ItemAlmacenID = nil

	reparado, err := f.svc.Reconciliar(context.Background(), pID)
	require.NoError(t, err)
	assert.True(t, reparado)
	assert.Len(t, f.almacen.items, 1)
	assert.NotNil(t, f.pesajes.pesajes[pID].ItemAlmacenID)
}

func TestReconciliarPesajeDesaparecido(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Reconciliar(context.Background(), uuid.New())
	require.ErrorIs(t, err, worker.ErrPesajeDesaparecido)
}

func TestReconciliarNoCalificaNoCrea(t *testing.T) {
	f := newFixture()

	p := &model.Pesaje{
		ID:            uuid.New(),
		TipoOperacion: model.OperacionSalida,
		Producto:      "Mineral de Plomo",
		CanchaNombre:  "Cancha Oeste",
		PesoNeto:      decimal.NewFromFloat(12),
	}
	f.pesajes.pesajes[p.ID] = p

	reparado, err := f.svc.Reconciliar(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, reparado)
	assert.Empty(t, f.almacen.items)
}
