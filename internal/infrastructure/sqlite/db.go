package sqlite

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/drb-alger/gestion-magasin/internal/domain/inventory"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// registerFold registra fold(text) para los filtros "contiene" sin distinguir mayúsculas
// con plegado Unicode (lower() de SQLite solo cubre ASCII).
func registerFold() error {
	registerOnce.Do(func() {
		registerErr = sqlite.RegisterDeterministicScalarFunction("fold", 1,
			func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
				switch v := args[0].(type) {
				case nil:
					return nil, nil
				case string:
					return inventory.Fold(v), nil
				case []byte:
					return inventory.Fold(string(v)), nil
				default:
					return inventory.Fold(fmt.Sprint(v)), nil
				}
			})
	})
	return registerErr
}

// OpenDB abre (o crea) la base SQLite y asegura el esquema.
// dsn: ruta de archivo o ":memory:". Una sola conexión: serializa las escrituras
// y mantiene viva la base en memoria.
func OpenDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	if err := registerFold(); err != nil {
		return nil, fmt.Errorf("registrar fold: %w", err)
	}
	db, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func ensureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  category TEXT,
  quantity INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
  price NUMERIC NOT NULL DEFAULT 0 CHECK (price >= 0),
  min_threshold INTEGER NOT NULL DEFAULT 0 CHECK (min_threshold >= 0),
  date_added TEXT NOT NULL,
  observation TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name     ON products(name);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

CREATE TABLE IF NOT EXISTS movements(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  type TEXT NOT NULL CHECK (type IN ('ENTREE','SORTIE')),
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  timestamp TEXT NOT NULL,
  recipient TEXT,
  observation TEXT,
  stock_after INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_movements_product   ON movements(product_id);
CREATE INDEX IF NOT EXISTS idx_movements_timestamp ON movements(timestamp);
CREATE INDEX IF NOT EXISTS idx_movements_recipient ON movements(recipient);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// isForeignKeyViolation verifica si un error es una violación de FOREIGN KEY.
func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
