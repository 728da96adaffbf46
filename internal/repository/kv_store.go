package repository

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// ローカルの永続キーバリューストア（ブラウザの localStorage 相当）
type KeyValueStore interface {
	// 無ければ ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// 無いキーの削除はエラーにしない
	Remove(ctx context.Context, key string) error
}
