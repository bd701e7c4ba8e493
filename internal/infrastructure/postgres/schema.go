package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema crea las tablas si no existen. price es NUMERIC (codec shopspring/decimal).
// COLLATE "C" ordena los nombres por bytes, igual que el backend SQLite.
func EnsureSchema(ctx context.Context, q Querier) error {
	const schema = `
CREATE TABLE IF NOT EXISTS products (
  id BIGSERIAL PRIMARY KEY,
  name TEXT COLLATE "C" NOT NULL,
  category TEXT,
  quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  price NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
  min_threshold BIGINT NOT NULL DEFAULT 0 CHECK (min_threshold >= 0),
  date_added TEXT NOT NULL,
  observation TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products (name);
CREATE INDEX IF NOT EXISTS idx_products_category ON products (category);

CREATE TABLE IF NOT EXISTS movements (
  id BIGSERIAL PRIMARY KEY,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  type TEXT NOT NULL CHECK (type IN ('ENTREE','SORTIE')),
  quantity BIGINT NOT NULL CHECK (quantity > 0),
  timestamp TEXT NOT NULL,
  recipient TEXT,
  observation TEXT,
  stock_after BIGINT NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_movements_product ON movements (product_id);
CREATE INDEX IF NOT EXISTS idx_movements_timestamp ON movements (timestamp DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_movements_recipient ON movements (recipient);
`
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
