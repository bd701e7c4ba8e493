package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo consulta del historial (movimientos unidos a productos) sobre PostgreSQL.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// Query aplica los filtros presentes; ProductID tiene prioridad sobre Article.
func (r *HistoryRepo) Query(ctx context.Context, filter entity.HistoryFilter) ([]entity.HistoryRow, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.ProductID != nil {
		where = append(where, "m.product_id = "+arg(*filter.ProductID))
	} else if filter.Article != "" {
		where = append(where, "strpos(lower(p.name), lower("+arg(filter.Article)+")) > 0")
	}
	if filter.Recipient != "" {
		where = append(where, "m.recipient = "+arg(filter.Recipient))
	}
	if filter.Type != "" {
		where = append(where, "m.type = "+arg(filter.Type))
	}

	var b strings.Builder
	b.WriteString(`
		SELECT m.id, m.timestamp, p.id, p.name, m.type, m.quantity,
		       COALESCE(m.recipient, ''), COALESCE(m.observation, ''),
		       p.quantity, m.stock_after
		FROM movements m
		JOIN products p ON p.id = m.product_id`)
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	b.WriteString("\n\t\tORDER BY m.timestamp DESC, m.id DESC")
	if filter.Limit > 0 {
		b.WriteString("\n\t\tLIMIT " + arg(filter.Limit))
	}

	rows, err := r.q.Query(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	var out []entity.HistoryRow
	for rows.Next() {
		var (
			h  entity.HistoryRow
			ts string
		)
		if err := rows.Scan(&h.MovementID, &ts, &h.ProductID, &h.ProductName, &h.Type, &h.Quantity,
			&h.Recipient, &h.Observation, &h.ResultingStock, &h.StockAtMovement); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if h.Date, err = parseTimestamp(ts); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
