package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrStore             = errors.New("fallo del almacenamiento")
	ErrIO                = errors.New("fallo de escritura del archivo")

	// ErrHasMovements: el producto tiene movimientos y no puede eliminarse.
	ErrHasMovements = fmt.Errorf("%w: el producto tiene movimientos registrados", ErrConflict)
)

// ValidationError describe un campo rechazado. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError lleva el stock disponible para informar al usuario.
type InsufficientStockError struct {
	ProductID int64
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: disponible %d, solicitado %d", ErrInsufficientStock.Error(), e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// StoreError envuelve con ErrStore cualquier error que no sea ya de dominio.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrInvalidInput, ErrInsufficientStock, ErrConflict, ErrStore} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}
