package inventory_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/inventory"
)

func TestApplyMovement_Sortie(t *testing.T) {
	q, err := inventory.ApplyMovement(1, 10, entity.MovementTypeSortie, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), q)

	// Vaciar exactamente el stock está permitido.
	q, err = inventory.ApplyMovement(1, 7, entity.MovementTypeSortie, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q)
}

func TestApplyMovement_SortieInsuficiente(t *testing.T) {
	q, err := inventory.ApplyMovement(42, 2, entity.MovementTypeSortie, 3)
	require.Error(t, err)
	assert.Equal(t, int64(2), q, "el stock no cambia si se rechaza")
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, int64(42), ise.ProductID)
	assert.Equal(t, int64(2), ise.Available)
	assert.Equal(t, int64(3), ise.Requested)
}

func TestApplyMovement_Entree(t *testing.T) {
	q, err := inventory.ApplyMovement(1, 0, entity.MovementTypeEntree, 25)
	require.NoError(t, err)
	assert.Equal(t, int64(25), q)

	_, err = inventory.ApplyMovement(1, math.MaxInt64-1, entity.MovementTypeEntree, 2)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "desbordamiento de int64")
}

func TestApplyMovement_EntradaInvalida(t *testing.T) {
	_, err := inventory.ApplyMovement(1, 10, "TRANSFER", 1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = inventory.ApplyMovement(1, 10, entity.MovementTypeSortie, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = inventory.ApplyMovement(1, 10, entity.MovementTypeEntree, -4)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReplay(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeSortie, Quantity: 3},
		{Type: entity.MovementTypeEntree, Quantity: 10},
		{Type: entity.MovementTypeSortie, Quantity: 5},
	}
	assert.Equal(t, int64(12), inventory.Replay(10, movs))
	assert.Equal(t, int64(10), inventory.Replay(10, nil))
}

func TestCrossedIntoLowStock(t *testing.T) {
	assert.True(t, inventory.CrossedIntoLowStock(5, 7, 2))
	assert.True(t, inventory.CrossedIntoLowStock(5, 5, 4))
	assert.False(t, inventory.CrossedIntoLowStock(5, 4, 2), "ya estaba en stock bajo")
	assert.False(t, inventory.CrossedIntoLowStock(5, 7, 5), "igual al umbral no es stock bajo")
	assert.False(t, inventory.CrossedIntoLowStock(0, 7, 0), "sin umbral no hay alerta")
}

func TestProduct_IsLowStock(t *testing.T) {
	cases := []struct {
		name     string
		qty, min int64
		wantLow  bool
	}{
		{"debajo del umbral", 2, 5, true},
		{"igual al umbral", 5, 5, false},
		{"encima del umbral", 9, 5, false},
		{"umbral cero", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := entity.Product{Quantity: tc.qty, MinThreshold: tc.min}
			assert.Equal(t, tc.wantLow, p.IsLowStock())
		})
	}
}

func TestNormalizeProduct(t *testing.T) {
	p := &entity.Product{Name: "  Clavier ", DateAdded: "2025-03-01", Quantity: 10, Price: decimal.NewFromInt(1500)}
	require.NoError(t, inventory.NormalizeProduct(p))
	assert.Equal(t, "Clavier", p.Name)

	// Ceros a la derecha no cuentan como decimales
	p.Price = decimal.RequireFromString("12.500")
	require.NoError(t, inventory.NormalizeProduct(p))

	bad := []*entity.Product{
		{Name: "   ", DateAdded: "2025-03-01"},
		{Name: "Souris", DateAdded: "01/03/2025"},
		{Name: "Souris", DateAdded: "2025-02-30"},
		{Name: "Souris", DateAdded: "2025-03-01", Quantity: -1},
		{Name: "Souris", DateAdded: "2025-03-01", Price: decimal.NewFromInt(-1)},
		{Name: "Souris", DateAdded: "2025-03-01", Price: decimal.RequireFromString("1.999")},
		{Name: "Souris", DateAdded: "2025-03-01", MinThreshold: -2},
	}
	for _, b := range bad {
		err := inventory.NormalizeProduct(b)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", b)
	}
}

func TestParseMovementDate(t *testing.T) {
	fallback := time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)

	got, err := inventory.ParseMovementDate("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = inventory.ParseMovementDate("2025-06-10", fallback)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10 00:00:00", got.Format(entity.TimestampLayout))

	got, err = inventory.ParseMovementDate("2025-06-10 14:30:00", fallback)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-10 14:30:00", got.Format(entity.TimestampLayout))

	_, err = inventory.ParseMovementDate("10/06/2025", fallback)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestFold(t *testing.T) {
	assert.Equal(t, inventory.Fold("bureau comptabilité"), inventory.Fold("BUREAU COMPTABILITÉ"))
}
