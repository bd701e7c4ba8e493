package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/drb-alger/gestion-magasin/internal/domain/entity"
	"github.com/drb-alger/gestion-magasin/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo consulta del historial (movimientos unidos a productos) sobre SQLite.
type HistoryRepo struct {
	q sqlx.QueryerContext
}

// NewHistoryRepository construye el adaptador.
func NewHistoryRepository(q sqlx.QueryerContext) *HistoryRepo {
	return &HistoryRepo{q: q}
}

type historyRow struct {
	MovementID      int64  `db:"movement_id"`
	Timestamp       string `db:"timestamp"`
	ProductID       int64  `db:"product_id"`
	ProductName     string `db:"product_name"`
	Type            string `db:"type"`
	Quantity        int64  `db:"quantity"`
	Recipient       string `db:"recipient"`
	Observation     string `db:"observation"`
	ResultingStock  int64  `db:"resulting_stock"`
	StockAtMovement int64  `db:"stock_at_movement"`
}

// Query aplica los filtros presentes; ProductID tiene prioridad sobre Article.
func (r *HistoryRepo) Query(ctx context.Context, filter entity.HistoryFilter) ([]entity.HistoryRow, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProductID != nil {
		where = append(where, "m.product_id = ?")
		args = append(args, *filter.ProductID)
	} else if filter.Article != "" {
		where = append(where, "instr(fold(p.name), fold(?)) > 0")
		args = append(args, filter.Article)
	}
	if filter.Recipient != "" {
		where = append(where, "m.recipient = ?")
		args = append(args, filter.Recipient)
	}
	if filter.Type != "" {
		where = append(where, "m.type = ?")
		args = append(args, filter.Type)
	}

	var b strings.Builder
	b.WriteString(`
		SELECT m.id AS movement_id, m.timestamp, p.id AS product_id, p.name AS product_name,
		       m.type, m.quantity, COALESCE(m.recipient, '') AS recipient,
		       COALESCE(m.observation, '') AS observation,
		       p.quantity AS resulting_stock, m.stock_after AS stock_at_movement
		FROM movements m
		JOIN products p ON p.id = m.product_id`)
	if len(where) > 0 {
		b.WriteString("\n\t\tWHERE " + strings.Join(where, " AND "))
	}
	b.WriteString("\n\t\tORDER BY m.timestamp DESC, m.id DESC")
	if filter.Limit > 0 {
		b.WriteString("\n\t\tLIMIT ?")
		args = append(args, filter.Limit)
	}

	var rows []historyRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, b.String(), args...); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	out := make([]entity.HistoryRow, 0, len(rows))
	for _, row := range rows {
		ts, err := parseTimestamp(row.Timestamp)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.HistoryRow{
			MovementID:      row.MovementID,
			Date:            ts,
			ProductID:       row.ProductID,
			ProductName:     row.ProductName,
			Type:            row.Type,
			Quantity:        row.Quantity,
			Recipient:       row.Recipient,
			Observation:     row.Observation,
			ResultingStock:  row.ResultingStock,
			StockAtMovement: row.StockAtMovement,
		})
	}
	return out, nil
}
