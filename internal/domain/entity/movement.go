package entity

import "time"

// Tipos de movimiento.
const (
	MovementTypeEntree = "ENTREE" // entrada / reposición
	MovementTypeSortie = "SORTIE" // salida / afectación
)

// TimestampLayout formato de almacenamiento de Movement.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Movement registro inmutable de un cambio de stock (append-only).
// Quantity es la magnitud (> 0); el signo lo da Type.
type Movement struct {
	ID          int64
	ProductID   int64
	Type        string
	Quantity    int64
	Timestamp   time.Time
	Recipient   string // service / bureau destinatario
	Observation string
	StockAfter  int64 // stock del producto justo después del commit
}

// IsValidMovementType indica si t es ENTREE o SORTIE.
func IsValidMovementType(t string) bool {
	return t == MovementTypeEntree || t == MovementTypeSortie
}

// SignedQuantity devuelve +Quantity para ENTREE y -Quantity para SORTIE.
func (m *Movement) SignedQuantity() int64 {
	if m.Type == MovementTypeSortie {
		return -m.Quantity
	}
	return m.Quantity
}
