package dto

import "github.com/shopspring/decimal"

// CreateProductRequest entrada para crear un producto. DateAdded vacío = hoy.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	MinThreshold int64           `json:"min_threshold"`
	DateAdded    string          `json:"date_added"`
	Observation  string          `json:"observation"`
}

// UpdateProductRequest sobrescribe todos los campos editables, incluida la cantidad.
// La cantidad editada aquí no genera movimiento.
type UpdateProductRequest struct {
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	MinThreshold int64           `json:"min_threshold"`
	DateAdded    string          `json:"date_added"`
	Observation  string          `json:"observation"`
}

// AdjustQuantityRequest body de PATCH /api/products/:id/quantity.
type AdjustQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	MinThreshold int64           `json:"min_threshold"`
	DateAdded    string          `json:"date_added"`
	Observation  string          `json:"observation"`
	Value        decimal.Decimal `json:"value"`
	LowStock     bool            `json:"low_stock"`
}

// ProductListResponse listado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Count int               `json:"count"`
}

// ReplenishmentSuggestion producto en stock bajo y unidades que faltan para alcanzar el umbral.
type ReplenishmentSuggestion struct {
	Product   ProductResponse `json:"product"`
	Shortfall int64           `json:"shortfall"` // MinThreshold - Quantity
}
