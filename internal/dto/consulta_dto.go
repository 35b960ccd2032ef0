package dto

// ConsultaRUCResponse is served by GET /v1/consulta/ruc/{ruc}.
// Mirrors the fields the padrón returns; cached in Redis.
type ConsultaRUCResponse struct {
	RUC         string `json:"ruc"`
	RazonSocial string `json:"razon_social"`
	Estado      string `json:"estado"`    // ACTIVO | BAJA | SUSPENDIDO
	Condicion   string `json:"condicion"` // HABIDO | NO HABIDO
	Direccion   string `json:"direccion"`
	Ubigeo      string `json:"ubigeo"`
}
