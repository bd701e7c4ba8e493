package postgres

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// defaultBackoff esperas entre intentos: 3 reintentos tras el primer fallo.
var defaultBackoff = []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}

// withRetry ejecuta fn y la reintenta con las esperas de backoff mientras el error sea transitorio.
// onRetry se invoca antes de cada espera (puede ser nil).
func withRetry(ctx context.Context, backoff []time.Duration, fn func() error, onRetry func(attempt int, err error)) error {
	err := fn()
	for i, wait := range backoff {
		if err == nil || !isTransient(err) {
			return err
		}
		if onRetry != nil {
			onRetry(i+1, err)
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Join(err, ctx.Err())
		case <-t.C:
		}
		err = fn()
	}
	return err
}

// isTransient indica fallos de conexión que pueden resolverse reintentando.
// Los errores SQL (restricciones, sintaxis) nunca son transitorios.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08": // connection_exception
			return true
		case pgErr.Code == "57P03", pgErr.Code == "53300": // cannot_connect_now, too_many_connections
			return true
		}
		return false
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}
