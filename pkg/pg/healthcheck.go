package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck returns a readiness probe. Besides reaching the server it
// requires SessionsTable to exist, so an instance whose migrations have not
// run is reported as not ready.
func Healthcheck(conn *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		var exists bool
		err := conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", SessionsTable).Scan(&exists)
		switch {
		case err != nil:
			return errors.Join(ErrHealthcheckFailed, err)
		case !exists:
			return errors.Join(ErrHealthcheckFailed, ErrSessionsTableMissing)
		}
		return nil
	}
}
