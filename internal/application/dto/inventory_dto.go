package dto

// AllocateRequest body de POST /api/products/:id/allocations (salida hacia un service).
type AllocateRequest struct {
	ProductID   int64  `json:"-"`
	Quantity    int64  `json:"quantity"`
	Recipient   string `json:"recipient"`
	Observation string `json:"observation"`
}

// RestockRequest body de POST /api/products/:id/movements.
// Date acepta YYYY-MM-DD o YYYY-MM-DD HH:MM:SS; vacío = ahora.
type RestockRequest struct {
	ProductID   int64  `json:"-"`
	Type        string `json:"type"`
	Quantity    int64  `json:"quantity"`
	Recipient   string `json:"recipient"`
	Observation string `json:"observation"`
	Date        string `json:"date"`
}

// MovementResponse salida de un movimiento registrado.
type MovementResponse struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"product_id"`
	Type        string `json:"type"`
	Quantity    int64  `json:"quantity"`
	Timestamp   string `json:"timestamp"`
	Recipient   string `json:"recipient"`
	Observation string `json:"observation"`
	StockAfter  int64  `json:"stock_after"`
}

// MovementResult resultado de Allocate / Restock.
type MovementResult struct {
	NewQuantity int64            `json:"new_quantity"`
	Movement    MovementResponse `json:"movement"`
	LowStock    bool             `json:"low_stock"`
}

// HistoryQuery filtros de GET /api/movements.
type HistoryQuery struct {
	ProductID *int64
	Article   string
	Recipient string
	Type      string
	Limit     int
}

// HistoryRowResponse fila del historial.
// ResultingStock es el stock actual; StockAtMovement la foto al registrar el movimiento.
type HistoryRowResponse struct {
	MovementID      int64  `json:"movement_id"`
	Date            string `json:"date"`
	ProductID       int64  `json:"product_id"`
	ProductName     string `json:"product_name"`
	Type            string `json:"type"`
	Quantity        int64  `json:"quantity"`
	Recipient       string `json:"recipient"`
	Observation     string `json:"observation"`
	ResultingStock  int64  `json:"resulting_stock"`
	StockAtMovement int64  `json:"stock_at_movement"`
}

// HistoryResponse resultado de la consulta del historial.
type HistoryResponse struct {
	Items []HistoryRowResponse `json:"items"`
	Count int                  `json:"count"`
	Limit int                  `json:"limit"`
}

// ProductMovementsResponse diario de movimientos de un producto, más recientes primero.
// InitialQuantity es el stock implícito antes del primer movimiento; Consistent es false si
// stock_after no encadena con el stock actual (p. ej. tras un ajuste directo).
type ProductMovementsResponse struct {
	ProductID       int64              `json:"product_id"`
	Quantity        int64              `json:"quantity"`
	InitialQuantity int64              `json:"initial_quantity"`
	Consistent      bool               `json:"consistent"`
	Items           []MovementResponse `json:"items"`
	Count           int                `json:"count"`
}
