package repository

import (
	"context"
	"database/sql"
	"errors"

	repo "evimeria/internal/repository"
)

// SQLiteのkv_storeテーブルを使うキーバリューストア
type SQLiteKeyValueStore struct {
	db *sql.DB
}

// DI（テーブルは db.OpenSQLite が作る）
func NewSQLiteKeyValueStore(db *sql.DB) *SQLiteKeyValueStore {
	return &SQLiteKeyValueStore{db: db}
}

var _ repo.KeyValueStore = (*SQLiteKeyValueStore)(nil)

func (s *SQLiteKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// 同じキーは上書き
func (s *SQLiteKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	const upsert = `
INSERT INTO kv_store (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	_, err := s.db.ExecContext(ctx, upsert, key, value)
	return err
}

func (s *SQLiteKeyValueStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	return err
}
