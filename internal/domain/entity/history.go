package entity

import "time"

// HistoryRow fila del historial: movimiento unido a su producto.
// ResultingStock es el stock ACTUAL del producto al momento de la consulta;
// StockAtMovement es la foto tomada al registrar el movimiento.
type HistoryRow struct {
	MovementID      int64
	Date            time.Time
	ProductID       int64
	ProductName     string
	Type            string
	Quantity        int64
	Recipient       string
	Observation     string
	ResultingStock  int64
	StockAtMovement int64
}

// HistoryFilter filtros del historial. ProductID tiene prioridad sobre Article.
type HistoryFilter struct {
	ProductID *int64
	Article   string // subcadena del nombre, sin distinguir mayúsculas
	Recipient string // coincidencia exacta
	Type      string // ENTREE, SORTIE o vacío
	Limit     int
}
