package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/drb-alger/gestion-magasin/internal/domain"
	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre SQLite (usable con db o tx).
type ProductRepo struct {
	q sqlx.ExtContext
}

// NewProductRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewProductRepository(q sqlx.ExtContext) *ProductRepo {
	return &ProductRepo{q: q}
}

type productRow struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	Category     string          `db:"category"`
	Quantity     int64           `db:"quantity"`
	Price        decimal.Decimal `db:"price"`
	MinThreshold int64           `db:"min_threshold"`
	DateAdded    string          `db:"date_added"`
	Observation  string          `db:"observation"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		ID:           r.ID,
		Name:         r.Name,
		Category:     r.Category,
		Quantity:     r.Quantity,
		Price:        r.Price,
		MinThreshold: r.MinThreshold,
		DateAdded:    r.DateAdded,
		Observation:  r.Observation,
	}
}

const productColumns = `id, name, COALESCE(category, '') AS category, quantity, price,
	min_threshold, date_added, COALESCE(observation, '') AS observation`

// Create persiste un nuevo producto y asigna product.ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO products (name, category, quantity, price, min_threshold, date_added, observation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		product.Name, product.Category, product.Quantity, product.Price.String(),
		product.MinThreshold, product.DateAdded, product.Observation,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product id: %w", err)
	}
	product.ID = id
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate en SQLite equivale a GetByID: la transacción ya serializa las escrituras.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// Update sobrescribe los campos editables.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE products
		SET name = ?, category = ?, quantity = ?, price = ?, min_threshold = ?, date_added = ?, observation = ?
		WHERE id = ?`,
		product.Name, product.Category, product.Quantity, product.Price.String(),
		product.MinThreshold, product.DateAdded, product.Observation, product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return expectOneRow(res)
}

// UpdateQuantity fija el stock del producto.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	return expectOneRow(res)
}

// Delete elimina el producto. Si tiene movimientos la FK lo impide: domain.ErrHasMovements.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrHasMovements
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOneRow(res)
}

// List filtra por nombre (contiene, plegado Unicode) y categoría exacta; orden por nombre e id.
func (r *ProductRepo) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	var rows []productRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT `+productColumns+`
		FROM products
		WHERE (? = '' OR instr(fold(name), fold(?)) > 0)
		  AND (? = '' OR category = ?)
		ORDER BY name, id`,
		filter.NameContains, filter.NameContains, filter.Category, filter.Category,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// CountLowStock cuenta productos con quantity < min_threshold y min_threshold > 0.
func (r *ProductRepo) CountLowStock(ctx context.Context) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n,
		`SELECT COUNT(*) FROM products WHERE min_threshold > 0 AND quantity < min_threshold`)
	if err != nil {
		return 0, fmt.Errorf("count low stock: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
