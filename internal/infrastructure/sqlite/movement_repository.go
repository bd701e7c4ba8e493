package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo diario de movimientos sobre SQLite (solo inserción).
type MovementRepo struct {
	q sqlx.ExtContext
}

// NewMovementRepository construye el adaptador. Pasar *sqlx.DB o *sqlx.Tx.
func NewMovementRepository(q sqlx.ExtContext) *MovementRepo {
	return &MovementRepo{q: q}
}

type movementRow struct {
	ID          int64  `db:"id"`
	ProductID   int64  `db:"product_id"`
	Type        string `db:"type"`
	Quantity    int64  `db:"quantity"`
	Timestamp   string `db:"timestamp"`
	Recipient   string `db:"recipient"`
	Observation string `db:"observation"`
	StockAfter  int64  `db:"stock_after"`
}

// Create inserta el movimiento y asigna movement.ID.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO movements (product_id, type, quantity, timestamp, recipient, observation, stock_after)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		movement.ProductID, movement.Type, movement.Quantity,
		movement.Timestamp.Format(entity.TimestampLayout),
		movement.Recipient, movement.Observation, movement.StockAfter,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert movement id: %w", err)
	}
	movement.ID = id
	return nil
}

// CountByProduct cuenta los movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM movements WHERE product_id = ?`, productID); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// ListByProduct devuelve los movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Movement, error) {
	var rows []movementRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT id, product_id, type, quantity, timestamp,
		       COALESCE(recipient, '') AS recipient, COALESCE(observation, '') AS observation, stock_after
		FROM movements
		WHERE product_id = ?
		ORDER BY timestamp DESC, id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTimestamp(row.Timestamp)
		if err != nil {
			return nil, err
		}
		out = append(out, &entity.Movement{
			ID:          row.ID,
			ProductID:   row.ProductID,
			Type:        row.Type,
			Quantity:    row.Quantity,
			Timestamp:   ts,
			Recipient:   row.Recipient,
			Observation: row.Observation,
			StockAfter:  row.StockAfter,
		})
	}
	return out, nil
}

// parseTimestamp acepta los formatos con y sin hora (datos antiguos guardados solo con fecha).
func parseTimestamp(s string) (time.Time, error) {
	ts, err := inventory.ParseMovementDate(s, time.Time{})
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return ts, nil
}
