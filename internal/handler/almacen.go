package handler

import (
	"net/http"

	"opmina/internal/apierror"
	"opmina/internal/dto"
	"opmina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlmacenHandler struct{ svc service.AlmacenService }

func NewAlmacenHandler(svc service.AlmacenService) *AlmacenHandler {
	return &AlmacenHandler{svc: svc}
}

// ListarItems godoc
// @Summary Listar lotes del catálogo de almacén
// @Tags almacen
// @Produce json
// @Security BearerAuth
// @Param categoria query string false "Filtro por categoría"
// @Param ubicacion query string false "Filtro por cancha (nombre)"
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Registros por página (default 50)"
// @Success 200 {object} dto.ItemAlmacenListResponse
// @Router /v1/almacen/items [get]
func (h *AlmacenHandler) ListarItems(c *gin.Context) {
	var filter dto.ItemAlmacenFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AlmacenHandler) ObtenerItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos godoc
// @Summary Listar movimientos de stock de canchas
// @Tags almacen
// @Produce json
// @Security BearerAuth
// @Param cancha_id query string false "UUID de cancha"
// @Param tipo query string false "ingreso | edicion | reversion | ajuste_manual"
// @Param page query int false "Página (default 1)"
// @Param limit query int false "Registros por página (default 100)"
// @Success 200 {object} dto.MovimientoCanchaListResponse
// @Router /v1/almacen/movimientos [get]
func (h *AlmacenHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoCanchaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
