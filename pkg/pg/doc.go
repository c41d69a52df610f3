// Package pg connects to PostgreSQL with pgx/v5 and prepares the schema of
// the Postgres session backend (see session.PostgresCollection).
//
// Config is read from PG_* environment variables. Connect opens a
// *pgxpool.Pool and retries with a linear backoff until the database answers.
// Migrate applies the embedded goose migrations, which create the sessions
// table (id text primary key, data bytea, lastmodified bigint) and its
// lastmodified index.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	coll := session.NewPostgresCollection(pool, pg.SessionsTable)
package pg
