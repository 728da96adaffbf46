package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"evimeria/internal/domain/model"
	"evimeria/internal/infra/db"
	infraRepo "evimeria/internal/infra/repository"
	repo "evimeria/internal/repository"
	"evimeria/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStore(t *testing.T, path string) *infraRepo.SQLiteKeyValueStore {
	t.Helper()
	sqlDB, err := db.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return infraRepo.NewSQLiteKeyValueStore(sqlDB)
}

func TestSQLiteKeyValueStore_GetMissing(t *testing.T) {
	s := newStore(t, ":memory:")

	_, err := s.Get(context.Background(), "cart")
	assert.ErrorIs(t, err, repo.ErrKeyNotFound)
}

func TestSQLiteKeyValueStore_SetGetOverwrite(t *testing.T) {
	s := newStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart", []byte(`{"items":[]}`)))
	require.NoError(t, s.Set(ctx, "cart", []byte(`{"items":[1]}`)))

	v, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[1]}`, string(v))
}

func TestSQLiteKeyValueStore_Remove(t *testing.T) {
	s := newStore(t, ":memory:")
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart", []byte("x")))
	require.NoError(t, s.Remove(ctx, "cart"))
	// 無いキーの削除もエラーにしない
	require.NoError(t, s.Remove(ctx, "cart"))

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, repo.ErrKeyNotFound)
}

// ファイルを開き直してもカートが残る
func TestSQLiteKeyValueStore_CartSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shop.db")
	ctx := context.Background()

	first, err := db.OpenSQLite(path)
	require.NoError(t, err)
	cart := usecase.NewCartUsecase(ctx, infraRepo.NewSQLiteKeyValueStore(first), zap.NewNop())
	cart.AddToCart(ctx, model.CartItem{
		ID:       9,
		Name:     "Foulard",
		Price:    decimal.RequireFromString("12.50"),
		Quantity: 2,
		Slug:     "foulard",
	})
	require.NoError(t, first.Close())

	reopened := usecase.NewCartUsecase(ctx, newStore(t, path), zap.NewNop())
	s := reopened.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, "25", s.TotalAmount.String())
}
