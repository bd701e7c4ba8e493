package repository

import (
	"context"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción cuando el motor lo soporta.
	GetForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// Update sobrescribe todos los campos editables; domain.ErrNotFound si no existe.
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	CountLowStock(ctx context.Context) (int, error)
}
