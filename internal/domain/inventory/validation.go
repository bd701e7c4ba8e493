package inventory

import (
	"strings"
	"time"

	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// NormalizeProduct recorta los textos y valida los invariantes del producto.
func NormalizeProduct(p *entity.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.DateAdded = strings.TrimSpace(p.DateAdded)
	p.Observation = strings.TrimSpace(p.Observation)

	if p.Name == "" {
		return domain.Invalid("name", "la designación es obligatoria")
	}
	if _, err := time.Parse(entity.DateLayout, p.DateAdded); err != nil {
		return domain.Invalid("date_added", "formato YYYY-MM-DD requerido")
	}
	if p.Quantity < 0 {
		return domain.Invalid("quantity", "no puede ser negativa")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return domain.Invalid("price", "máximo 2 decimales")
	}
	if p.MinThreshold < 0 {
		return domain.Invalid("min_threshold", "no puede ser negativo")
	}
	return nil
}

// ParseMovementDate acepta "YYYY-MM-DD" o "YYYY-MM-DD HH:MM:SS"; vacío devuelve fallback.
func ParseMovementDate(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if t, err := time.ParseInLocation(entity.TimestampLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(entity.DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Invalid("date", "formato YYYY-MM-DD o YYYY-MM-DD HH:MM:SS requerido")
}
