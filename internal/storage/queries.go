package storage

import (
	"context"
	"database/sql"
	"time"
)

const getRecord = `SELECT value FROM records WHERE key = ?`

const upsertRecord = `INSERT INTO records (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

const deleteRecord = `DELETE FROM records WHERE key = ?`

const listKeysWithPrefix = `SELECT key FROM records WHERE substr(key, 1, length(?1)) = ?1 ORDER BY key`

const countRecords = `SELECT COUNT(*) FROM records`

// Queries wraps the prepared SQL used by SQLiteStore.
type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

func (q *Queries) GetRecord(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, getRecord, key).Scan(&value)
	return value, err
}

func (q *Queries) UpsertRecord(ctx context.Context, key, value string, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx, upsertRecord, key, value, updatedAt.UTC())
	return err
}

func (q *Queries) DeleteRecord(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteRecord, key)
	return err
}

func (q *Queries) ListKeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listKeysWithPrefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (q *Queries) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countRecords).Scan(&n)
	return n, err
}
