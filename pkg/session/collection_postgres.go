package session

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/mongosession/pkg/pg"
)

// pgxConn is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresCollection implements Collection on a Postgres table with
// columns id (text primary key), data (bytea) and lastmodified (bigint).
// The table is created by pg.Migrate.
type PostgresCollection struct {
	db    pgxConn
	name  string
	table string
}

// NewPostgresCollection binds to the named table.
// An empty name selects DefaultCollectionName.
func NewPostgresCollection(db pgxConn, table string) *PostgresCollection {
	if table == "" {
		table = DefaultCollectionName
	}
	return &PostgresCollection{
		db:    db,
		name:  table,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// FindOne implements Collection
func (c *PostgresCollection) FindOne(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := c.db.QueryRow(ctx,
		"SELECT id, data, lastmodified FROM "+c.table+" WHERE id = $1", id,
	).Scan(&doc.ID, &doc.Data, &doc.LastModified)
	if pg.IsNotFoundError(err) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Upsert implements Collection
func (c *PostgresCollection) Upsert(ctx context.Context, doc *Document) error {
	_, err := c.db.Exec(ctx,
		"INSERT INTO "+c.table+" (id, data, lastmodified) VALUES ($1, $2, $3) "+
			"ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, lastmodified = EXCLUDED.lastmodified",
		doc.ID, doc.Data, doc.LastModified,
	)
	return err
}

// DeleteByID implements Collection
func (c *PostgresCollection) DeleteByID(ctx context.Context, id string) error {
	_, err := c.db.Exec(ctx, "DELETE FROM "+c.table+" WHERE id = $1", id)
	return err
}

// DeleteOlderThan implements Collection
func (c *PostgresCollection) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	tag, err := c.db.Exec(ctx, "DELETE FROM "+c.table+" WHERE lastmodified < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// FindIDs implements Collection
func (c *PostgresCollection) FindIDs(ctx context.Context) ([]string, error) {
	rows, err := c.db.Query(ctx, "SELECT id FROM "+c.table)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// EnsureIndex implements Collection
func (c *PostgresCollection) EnsureIndex(ctx context.Context) error {
	index := pgx.Identifier{c.name + "_" + FieldLastModified + "_idx"}.Sanitize()
	_, err := c.db.Exec(ctx, "CREATE INDEX IF NOT EXISTS "+index+" ON "+c.table+" (lastmodified)")
	return err
}
