package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (collection, id)
)`

// SQLite keeps documents in a single local file, for development runs
// without cloud credentials.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer at a time; the pipeline is sequential anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	doc := Document{ID: id}
	if err := json.Unmarshal([]byte(raw), &doc.Data); err != nil {
		return Document{}, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *SQLite) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, data FROM documents WHERE collection = ? ORDER BY id", collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d   Document
			raw string
		)
		if err := rows.Scan(&d.ID, &raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		if err := json.Unmarshal([]byte(raw), &d.Data); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, d.ID, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SQLite) DeleteAll(ctx context.Context, collection string) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", collection)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", collection, err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) NewBatch() Batch {
	return &sqliteBatch{s: s}
}

type sqliteBatch struct {
	s   *SQLite
	ops []op
}

func (b *sqliteBatch) Create(collection, id string, fields map[string]interface{}) {
	b.ops = append(b.ops, op{collection: collection, id: id, fields: fields})
}

func (b *sqliteBatch) Update(collection, id string, fields map[string]interface{}) {
	b.ops = append(b.ops, op{update: true, collection: collection, id: id, fields: fields})
}

func (b *sqliteBatch) Len() int { return len(b.ops) }

func (b *sqliteBatch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	tx, err := b.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := b.s.now().UTC()
	stamp := now.Format(time.RFC3339Nano)
	for _, o := range b.ops {
		data, err := json.Marshal(resolveFields(o.fields, now))
		if err != nil {
			return fmt.Errorf("encode %s/%s: %w", o.collection, o.id, err)
		}
		if !o.update {
			_, err = tx.ExecContext(ctx, `INSERT INTO documents (collection, id, data, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
				o.collection, o.id, string(data), stamp, stamp)
			if err != nil {
				return fmt.Errorf("create %s/%s: %w", o.collection, o.id, err)
			}
			continue
		}
		if err := updateTopLevel(ctx, tx, o.collection, o.id, resolveFields(o.fields, now), stamp); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// updateTopLevel replaces whole top-level fields of a stored document.
// Nested maps are overwritten rather than merged, matching Firestore's
// field-path updates.
func updateTopLevel(ctx context.Context, tx *sql.Tx, collection, id string, fields map[string]interface{}, stamp string) error {
	var raw string
	err := tx.QueryRowContext(ctx,
		"SELECT data FROM documents WHERE collection = ? AND id = ?", collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read %s/%s: %w", collection, id, err)
	}
	stored := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	for k, v := range fields {
		stored[k] = v
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE documents SET data = ?, updated_at = ? WHERE collection = ? AND id = ?",
		string(data), stamp, collection, id); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}
