package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOptions configures the connection pool.
type PostgresOptions struct {
	URL      string
	MinConns int
	MaxConns int
	MaxLife  time.Duration
}

// Postgres keeps every collection in one JSONB documents table.
type Postgres struct {
	pool *pgxpool.Pool
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

// NewPostgres ensures the documents table exists, then creates and
// validates a connection pool with prepared statements.
func NewPostgres(ctx context.Context, opts PostgresOptions) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if opts.MinConns > 0 {
		poolCfg.MinConns = int32(opts.MinConns)
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = int32(opts.MaxConns)
	}
	if opts.MaxLife > 0 {
		poolCfg.MaxConnLifetime = opts.MaxLife
	}
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// The table must exist before statements referencing it can be prepared.
	if err := ensureSchema(ctx, poolCfg.ConnConfig); err != nil {
		return nil, err
	}
	poolCfg.AfterConnect = registerPreparedStatements

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func ensureSchema(ctx context.Context, cfg *pgx.ConnConfig) error {
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	return nil
}

func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		"health_check": "SELECT 1",
		"doc_get":      "SELECT data FROM documents WHERE collection = $1 AND id = $2",
		"doc_list":     "SELECT id, data FROM documents WHERE collection = $1 ORDER BY id",
		"doc_create": `INSERT INTO documents (collection, id, data, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		"doc_update": "UPDATE documents SET data = data || $3, updated_at = $4 WHERE collection = $1 AND id = $2",
		"doc_delete": "DELETE FROM documents WHERE collection = $1",
		"server_now": "SELECT now()",
	}
	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (Document, error) {
	var data map[string]interface{}
	err := p.pool.QueryRow(ctx, "doc_get", collection, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx, "doc_list", collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (p *Postgres) DeleteAll(ctx context.Context, collection string) (int, error) {
	tag, err := p.pool.Exec(ctx, "doc_delete", collection)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", collection, err)
	}
	return int(tag.RowsAffected()), nil
}

// Ping runs a trivial query to verify the database is reachable.
func (p *Postgres) Ping(ctx context.Context) error {
	var n int
	return p.pool.QueryRow(ctx, "health_check").Scan(&n)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) NewBatch() Batch {
	return &postgresBatch{pool: p.pool}
}

type postgresBatch struct {
	pool *pgxpool.Pool
	ops  []op
}

func (b *postgresBatch) Create(collection, id string, fields map[string]interface{}) {
	b.ops = append(b.ops, op{collection: collection, id: id, fields: fields})
}

func (b *postgresBatch) Update(collection, id string, fields map[string]interface{}) {
	b.ops = append(b.ops, op{update: true, collection: collection, id: id, fields: fields})
}

func (b *postgresBatch) Len() int { return len(b.ops) }

// Commit sends every operation in one transaction. The transaction start
// time resolves ServerTimestamp so all documents in a batch share it.
func (b *postgresBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var now time.Time
	if err := tx.QueryRow(ctx, "server_now").Scan(&now); err != nil {
		return fmt.Errorf("read server time: %w", err)
	}

	batch := &pgx.Batch{}
	for _, o := range b.ops {
		data, err := json.Marshal(resolveFields(o.fields, now))
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", o.collection, o.id, err)
		}
		stmt := "doc_create"
		if o.update {
			stmt = "doc_update"
		}
		batch.Queue(stmt, o.collection, o.id, data, now)
	}

	results := tx.SendBatch(ctx, batch)
	for _, o := range b.ops {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return fmt.Errorf("write %s/%s: %w", o.collection, o.id, err)
		}
		if o.update && tag.RowsAffected() == 0 {
			results.Close()
			return fmt.Errorf("update %s/%s: %w", o.collection, o.id, ErrNotFound)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return tx.Commit(ctx)
}
