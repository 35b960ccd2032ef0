package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"opmina/internal/apierror"
	"opmina/internal/dto"
	"opmina/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const rucCacheTTL = 24 * time.Hour

// ConsultaRUCHandler sirve la consulta de padrón para autocompletar la razón
// social del cliente en el formulario de pesaje. El breaker evita castigar
// la portería cuando la API pública no responde.
type ConsultaRUCHandler struct {
	client *infra.SUNATClient
	rdb    *redis.Client
	cb     *infra.CircuitBreaker
}

func NewConsultaRUCHandler(client *infra.SUNATClient, rdb *redis.Client, cb *infra.CircuitBreaker) *ConsultaRUCHandler {
	return &ConsultaRUCHandler{client: client, rdb: rdb, cb: cb}
}

// GetRUC godoc
// @Summary Consulta de RUC en el padrón SUNAT
// @Tags consulta
// @Produce json
// @Security BearerAuth
// @Param ruc path string true "RUC de 11 dígitos"
// @Success 200 {object} dto.ConsultaRUCResponse
// @Failure 404 {object} apierror.APIError
// @Failure 503 {object} apierror.APIError
// @Router /v1/consulta/ruc/{ruc} [get]
func (h *ConsultaRUCHandler) GetRUC(c *gin.Context) {
	ruc := c.Param("ruc")
	if len(ruc) != 11 {
		c.JSON(http.StatusBadRequest, apierror.New("RUC invalido: se esperan 11 digitos"))
		return
	}
	ctx := c.Request.Context()
	cacheKey := "ruc:" + ruc

	// 1. Try Redis cache — el padrón cambia poco, 24h de TTL alcanza
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.ConsultaRUCResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss — query padrón through the circuit breaker
	var result *infra.SUNATResponse
	err := h.cb.Execute(func() error {
		var cbErr error
		result, cbErr = h.client.ConsultarRUC(ctx, ruc)
		return cbErr
	})
	if errors.Is(err, infra.ErrCircuitOpen) {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Consulta RUC temporalmente no disponible"))
		return
	}
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("RUC no encontrado en el padrón"))
		return
	}

	resp := dto.ConsultaRUCResponse{
		RUC:         result.RUC,
		RazonSocial: result.RazonSocial,
		Estado:      result.Estado,
		Condicion:   result.Condicion,
		Direccion:   result.Direccion,
		Ubigeo:      result.Ubigeo,
	}

	// 3. Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, rucCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
