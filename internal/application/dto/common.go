package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Available stock disponible, solo para INSUFFICIENT_STOCK.
	Available *int64 `json:"available,omitempty"`
}

// CountResponse cuerpo de un conteo simple.
type CountResponse struct {
	Count int `json:"count"`
}

// CatalogResponse listas de categorías y destinatarios configuradas.
type CatalogResponse struct {
	Categories []string `json:"categories"`
	Recipients []string `json:"recipients"`
}
