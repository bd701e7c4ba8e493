package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/inventory"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo diario de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento y asigna movement.ID.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	query := `
		INSERT INTO movements (product_id, type, quantity, timestamp, recipient, observation, stock_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		movement.ProductID, movement.Type, movement.Quantity,
		movement.Timestamp.Format(entity.TimestampLayout),
		movement.Recipient, movement.Observation, movement.StockAfter,
	).Scan(&movement.ID)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// CountByProduct cuenta los movimientos de un producto.
func (r *MovementRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// ListByProduct devuelve los movimientos de un producto, más recientes primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Movement, error) {
	query := `
		SELECT id, product_id, type, quantity, timestamp,
		       COALESCE(recipient, ''), COALESCE(observation, ''), stock_after
		FROM movements
		WHERE product_id = $1
		ORDER BY timestamp DESC, id DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var (
			m  entity.Movement
			ts string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &ts,
			&m.Recipient, &m.Observation, &m.StockAfter); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m.Timestamp, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func parseTimestamp(s string) (time.Time, error) {
	ts, err := inventory.ParseMovementDate(s, time.Time{})
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return ts, nil
}
