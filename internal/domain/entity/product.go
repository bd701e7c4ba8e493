package entity

import "github.com/shopspring/decimal"

// DateLayout formato de fecha de alta de un producto (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// Product representa un artículo del magasin.
// Quantity es el stock autoritativo; solo lo modifican los movimientos o una edición directa.
type Product struct {
	ID           int64
	Name         string
	Category     string // etiqueta del catálogo o vacío
	Quantity     int64
	Price        decimal.Decimal
	MinThreshold int64 // 0 = sin alerta
	DateAdded    string
	Observation  string
}

// IsLowStock indica stock bajo: Quantity < MinThreshold con MinThreshold > 0.
func (p *Product) IsLowStock() bool {
	return p.MinThreshold > 0 && p.Quantity < p.MinThreshold
}

// Value devuelve Quantity * Price.
func (p *Product) Value() decimal.Decimal {
	return decimal.NewFromInt(p.Quantity).Mul(p.Price)
}

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	NameContains string // subcadena, sin distinguir mayúsculas
	Category     string // coincidencia exacta
}
