package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SUNATResponse is what the public padrón API returns for a RUC lookup.
type SUNATResponse struct {
	RUC         string `json:"numeroDocumento"`
	RazonSocial string `json:"razonSocial"`
	Estado      string `json:"estado"`    // "ACTIVO" | "BAJA ..."
	Condicion   string `json:"condicion"` // "HABIDO" | "NO HABIDO"
	Direccion   string `json:"direccion"`
	Ubigeo      string `json:"ubigeo"`
}

// SUNATClient consulta el padrón de contribuyentes por RUC contra una API
// pública. Se usa para autocompletar la razón social del cliente en el
// formulario de pesaje; si el servicio no responde, el balancero tipea a mano.
type SUNATClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewSUNATClient(baseURL string) *SUNATClient {
	return &SUNATClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// ConsultarRUC fetches the padrón record for an 11-digit RUC.
func (c *SUNATClient) ConsultarRUC(ctx context.Context, ruc string) (*SUNATResponse, error) {
	url := fmt.Sprintf("%s/ruc?numero=%s", c.baseURL, ruc)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("sunat: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sunat: padrón unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sunat: padrón returned %d", resp.StatusCode)
	}

	var result SUNATResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("sunat: decode response: %w", err)
	}
	return &result, nil
}
