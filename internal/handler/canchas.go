package handler

import (
	"net/http"

	"opmina/internal/apierror"
	"opmina/internal/dto"
	"opmina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CanchasHandler struct{ svc service.CanchaService }

func NewCanchasHandler(svc service.CanchaService) *CanchasHandler { return &CanchasHandler{svc: svc} }

// Crear godoc
// @Summary Crear una cancha de acopio
// @Tags canchas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearCanchaRequest true "Datos de la cancha"
// @Success 201 {object} dto.CanchaResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/canchas [post]
func (h *CanchasHandler) Crear(c *gin.Context) {
	var req dto.CrearCanchaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CanchasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar canchas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CanchasHandler) ObtenerPorID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CanchasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarCanchaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary Ajuste manual de stock de cancha
// @Description Aplica un delta firmado al tonelaje de la cancha con su movimiento de auditoría. Puede dejar el stock negativo.
// @Tags canchas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "UUID de la cancha"
// @Param body body dto.AjusteStockRequest true "Delta y motivo"
// @Success 200 {object} dto.CanchaResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/canchas/{id}/ajuste [patch]
func (h *CanchasHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
