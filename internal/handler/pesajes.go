package handler

import (
	"errors"
	"net/http"

	"opmina/internal/apierror"
	"opmina/internal/config"
	"opmina/internal/dto"
	"opmina/internal/infra"
	"opmina/internal/repository"
	"opmina/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TicketMailer sends a ticket PDF to a recipient. Satisfied by infra.Mailer.
type TicketMailer interface {
	SendTicket(to, subject, body, pdfPath string) error
}

type PesajesHandler struct {
	svc    service.PesajeService
	repo   repository.PesajeRepository
	mailer TicketMailer
	cfg    *config.Config
}

func NewPesajesHandler(svc service.PesajeService, repo repository.PesajeRepository, mailer TicketMailer, cfg *config.Config) *PesajesHandler {
	return &PesajesHandler{svc: svc, repo: repo, mailer: mailer, cfg: cfg}
}

// Los endpoints de escritura devuelven el sobre {success, error, pesaje} que
// consumen los formularios de balanza, en lugar del cuerpo desnudo.

func operacionOK(pesaje *dto.PesajeResponse) dto.OperacionPesajeResponse {
	return dto.OperacionPesajeResponse{Success: true, Pesaje: pesaje}
}

func operacionError(err error) (int, dto.OperacionPesajeResponse) {
	status := http.StatusBadRequest
	if errors.Is(err, service.ErrCanchaNoEncontrada) || errors.Is(err, service.ErrPesajeNoEncontrado) {
		status = http.StatusNotFound
	}
	return status, dto.OperacionPesajeResponse{Success: false, Error: err.Error()}
}

// Registrar godoc
// @Summary      Registrar un pesaje de balanza
// @Description  Crea el pesaje, su lote de almacén (si es ingreso con producto) y suma el neto al stock de la cancha — todo en una transacción.
// @Tags         pesajes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PesajeRequest true "Datos del pesaje"
// @Success      201  {object} dto.OperacionPesajeResponse
// @Failure      404  {object} dto.OperacionPesajeResponse
// @Router       /v1/pesajes [post]
func (h *PesajesHandler) Registrar(c *gin.Context) {
	var req dto.PesajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		c.JSON(operacionError(err))
		return
	}
	c.JSON(http.StatusCreated, operacionOK(resp))
}

// Actualizar godoc
// @Summary      Actualizar un pesaje
// @Description  Edita el pesaje compensando el stock: revierte el efecto anterior y aplica el nuevo (delta neto si es la misma cancha).
// @Tags         pesajes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string            true "UUID del pesaje"
// @Param        body body dto.PesajeRequest true "Datos actualizados"
// @Success      200  {object} dto.OperacionPesajeResponse
// @Failure      404  {object} dto.OperacionPesajeResponse
// @Router       /v1/pesajes/{id} [put]
func (h *PesajesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.PesajeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(operacionError(err))
		return
	}
	c.JSON(http.StatusOK, operacionOK(resp))
}

// Eliminar godoc
// @Summary      Eliminar un pesaje
// @Description  Elimina el pesaje, revierte el stock de la cancha y da de baja el lote de almacén asociado.
// @Tags         pesajes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pesaje"
// @Success      200 {object} dto.OperacionPesajeResponse
// @Failure      404 {object} dto.OperacionPesajeResponse
// @Router       /v1/pesajes/{id} [delete]
func (h *PesajesHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(operacionError(err))
		return
	}
	c.JSON(http.StatusOK, dto.OperacionPesajeResponse{Success: true})
}

// Listar godoc
// @Summary      Listar pesajes
// @Produce      json
// @Security     BearerAuth
// @Tags         pesajes
// @Param        fecha  query string false "Fecha YYYY-MM-DD"
// @Param        tipo   query string false "ingreso | salida"
// @Param        cancha query string false "UUID de cancha"
// @Param        page   query int    false "Página (default 1)"
// @Param        limit  query int    false "Registros por página (default 50)"
// @Success      200 {object} dto.PesajeListResponse
// @Router       /v1/pesajes [get]
func (h *PesajesHandler) Listar(c *gin.Context) {
	var filter dto.PesajeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarPesajes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pesajes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID godoc
// @Summary      Obtener un pesaje
// @Produce      json
// @Security     BearerAuth
// @Tags         pesajes
// @Param        id path string true "UUID del pesaje"
// @Success      200 {object} dto.PesajeResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pesajes/{id} [get]
func (h *PesajesHandler) ObtenerPorID(c *gin.Context) {
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

// DescargarTicket godoc
// @Summary      Descargar el ticket PDF de un pesaje
// @Produce      application/pdf
// @Security     BearerAuth
// @Tags         pesajes
// @Param        id path string true "UUID del pesaje"
// @Success      200 {file} binary
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pesajes/{id}/ticket [get]
func (h *PesajesHandler) DescargarTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	pesaje, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pesaje no encontrado"))
		return
	}
	path, err := infra.GenerateTicketPesajePDF(pesaje, h.cfg.EmpresaNombre, h.cfg.PDFStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el ticket"))
		return
	}
	c.FileAttachment(path, "ticket_"+pesaje.ID.String()+".pdf")
}

// EnviarTicket godoc
// @Summary      Enviar el ticket PDF de un pesaje por correo
// @Description  Genera el ticket de balanza y lo envía como adjunto a la dirección indicada.
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Tags         pesajes
// @Param        id   path string                  true "UUID del pesaje"
// @Param        body body dto.EnviarTicketRequest true "Destinatario"
// @Success      200  {object} map[string]bool
// @Failure      404  {object} apierror.APIError
// @Router       /v1/pesajes/{id}/ticket/enviar [post]
func (h *PesajesHandler) EnviarTicket(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.EnviarTicketRequest
	if !bindAndValidate(c, &req) {
		return
	}
	pesaje, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pesaje no encontrado"))
		return
	}
	path, err := infra.GenerateTicketPesajePDF(pesaje, h.cfg.EmpresaNombre, h.cfg.PDFStoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el ticket"))
		return
	}
	subject := "Ticket de balanza " + pesaje.Placa
	body := "Adjuntamos el ticket de pesaje " + pesaje.ID.String() + "."
	if err := h.mailer.SendTicket(req.Email, subject, body, path); err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Error al enviar el correo"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"enviado": true})
}

// Reconciliar godoc
// @Summary      Reconciliar el lote de almacén de un pesaje
// @Description  Repara manualmente el enlace pesaje↔lote (backfill idempotente). Pensado para operadores; la reparación automática corre por worker.
// @Produce      json
// @Security     BearerAuth
// @Tags         pesajes
// @Param        id path string true "UUID del pesaje"
// @Success      200 {object} map[string]bool
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pesajes/{id}/reconciliar [post]
func (h *PesajesHandler) Reconciliar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	reparado, err := h.svc.Reconciliar(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Pesaje no encontrado"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reparado": reparado})
}
