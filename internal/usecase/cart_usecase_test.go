package usecase_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"evimeria/internal/domain/model"
	repo "evimeria/internal/repository"
	"evimeria/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// =====================
// メモリ上の KeyValueStore
// =====================

type memKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	sets   int
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}}
}

func (m *memKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, repo.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

var _ repo.KeyValueStore = (*memKV)(nil)

// =====================
// helper
// =====================

func item(id int64, price string, qty int) model.CartItem {
	return model.CartItem{
		ID:       id,
		Name:     "Produit",
		Price:    decimal.RequireFromString(price),
		Image:    "img.jpg",
		Quantity: qty,
		Slug:     "produit",
	}
}

func assertAggregates(t *testing.T, s model.CartState) {
	t.Helper()

	qty := 0
	amount := decimal.Zero
	seen := map[int64]bool{}
	for _, it := range s.Items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
		qty += it.Quantity
		amount = amount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	assert.Equal(t, qty, s.TotalItems)
	assert.True(t, amount.Equal(s.TotalAmount), "totalAmount %s != %s", s.TotalAmount, amount)
}

func newCart(t *testing.T, kv repo.KeyValueStore) *usecase.CartUsecase {
	t.Helper()
	return usecase.NewCartUsecase(context.Background(), kv, zap.NewNop())
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_StartsEmpty(t *testing.T) {
	uc := newCart(t, newMemKV())

	s := uc.State()
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.TotalItems)
	assert.True(t, s.TotalAmount.IsZero())
}

func TestCartUsecase_AddToCart_NewItem(t *testing.T) {
	uc := newCart(t, newMemKV())

	s := uc.AddToCart(context.Background(), item(1, "10", 2))
	require.Len(t, s.Items, 1)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, 2, s.TotalItems)
	assert.Equal(t, "20", s.TotalAmount.String())
}

// 同一IDは数量だけ加算、価格・名前・画像は最初のまま
func TestCartUsecase_AddToCart_MergeKeepsFirstAttributes(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 2))
	second := model.CartItem{ID: 1, Name: "Autre", Price: decimal.NewFromInt(99), Image: "other.jpg", Quantity: 3, Slug: "autre"}
	s := uc.AddToCart(ctx, second)

	require.Len(t, s.Items, 1)
	got := s.Items[0]
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, "Produit", got.Name)
	assert.Equal(t, "img.jpg", got.Image)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "50", s.TotalAmount.String())
}

func TestCartUsecase_AddToCart_NonPositiveQuantityIgnored(t *testing.T) {
	kv := newMemKV()
	uc := newCart(t, kv)
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 0))
	s := uc.AddToCart(ctx, item(2, "10", -1))

	assert.Empty(t, s.Items)
	assert.Equal(t, 0, kv.sets)
}

// =====================
// RemoveFromCart / UpdateQuantity
// =====================

func TestCartUsecase_RemoveFromCart_RegardlessOfQuantity(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 7))
	uc.AddToCart(ctx, item(2, "5", 1))

	s := uc.RemoveFromCart(ctx, 1)
	require.Len(t, s.Items, 1)
	assert.Equal(t, int64(2), s.Items[0].ID)
	assert.Equal(t, 1, s.TotalItems)
	assert.Equal(t, "5", s.TotalAmount.String())
}

func TestCartUsecase_RemoveFromCart_UnknownID(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 1))
	s := uc.RemoveFromCart(ctx, 42)
	assert.Len(t, s.Items, 1)
}

func TestCartUsecase_UpdateQuantity(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "2.50", 1))
	s := uc.UpdateQuantity(ctx, 1, 4)

	assert.Equal(t, 4, s.Items[0].Quantity)
	assert.Equal(t, 4, s.TotalItems)
	assert.Equal(t, "10", s.TotalAmount.String())
}

func TestCartUsecase_UpdateQuantity_NonPositiveIgnored(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 3))

	for _, q := range []int{0, -5} {
		s := uc.UpdateQuantity(ctx, 1, q)
		require.Len(t, s.Items, 1)
		assert.Equal(t, 3, s.Items[0].Quantity)
		assert.Equal(t, 3, s.TotalItems)
	}
}

func TestCartUsecase_UpdateQuantity_UnknownID(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 3))
	s := uc.UpdateQuantity(ctx, 99, 5)

	assert.Len(t, s.Items, 1)
	_, found := s.Find(99)
	assert.False(t, found)
}

// =====================
// ClearCart
// =====================

func TestCartUsecase_ClearCart_RemovesSnapshot(t *testing.T) {
	kv := newMemKV()
	uc := newCart(t, kv)
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 3))
	require.True(t, kv.has(usecase.CartStorageKey))

	s := uc.ClearCart(ctx)
	assert.Empty(t, s.Items)
	assert.Equal(t, 0, s.TotalItems)
	assert.True(t, s.TotalAmount.IsZero())
	assert.False(t, kv.has(usecase.CartStorageKey))
}

// =====================
// 合計・一意性（ランダム操作）
// =====================

func TestCartUsecase_AggregatesHoldForRandomOperations(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()
	r := rand.New(rand.NewSource(7))
	prices := []string{"0.10", "9.99", "19.90", "120", "3.33"}

	for i := 0; i < 500; i++ {
		id := int64(r.Intn(6) + 1)
		var s model.CartState
		switch r.Intn(4) {
		case 0, 1:
			s = uc.AddToCart(ctx, item(id, prices[r.Intn(len(prices))], r.Intn(5)-1))
		case 2:
			s = uc.RemoveFromCart(ctx, id)
		default:
			s = uc.UpdateQuantity(ctx, id, r.Intn(8)-2)
		}
		assertAggregates(t, s)
	}
}

// 返り値を書き換えても中の状態は変わらない
func TestCartUsecase_StateIsACopy(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	s := uc.AddToCart(ctx, item(1, "10", 1))
	s.Items[0].Quantity = 100

	assert.Equal(t, 1, uc.State().Items[0].Quantity)
}

// =====================
// 永続化
// =====================

func TestCartUsecase_ReloadReproducesState(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()

	uc := newCart(t, kv)
	uc.AddToCart(ctx, item(1, "10.50", 2))
	uc.AddToCart(ctx, item(2, "3", 1))
	before := uc.State()

	after := newCart(t, kv).State()
	require.Len(t, after.Items, 2)
	assert.Equal(t, before.TotalItems, after.TotalItems)
	assert.True(t, before.TotalAmount.Equal(after.TotalAmount))
	for i := range before.Items {
		assert.Equal(t, before.Items[i].ID, after.Items[i].ID)
		assert.True(t, before.Items[i].Price.Equal(after.Items[i].Price))
	}
}

// 文字列で保存された価格も数値として読む
func TestCartUsecase_LoadsStringPrices(t *testing.T) {
	kv := newMemKV()
	kv.data[usecase.CartStorageKey] = []byte(`{
		"items": [{"id": 1, "name": "A", "price": "19.90", "image": "x", "quantity": 2, "slug": "a"}],
		"totalItems": 2,
		"totalAmount": "39.80"
	}`)

	s := newCart(t, kv).State()
	require.Len(t, s.Items, 1)
	assert.True(t, s.Items[0].Price.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, "39.8", s.TotalAmount.String())
}

// 保存された合計は読み直す
func TestCartUsecase_LoadRecomputesTotals(t *testing.T) {
	kv := newMemKV()
	kv.data[usecase.CartStorageKey] = []byte(`{"items":[{"id":1,"name":"A","price":5,"image":"","quantity":3,"slug":"a"}],"totalItems":99,"totalAmount":1}`)

	s := newCart(t, kv).State()
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, "15", s.TotalAmount.String())
}

func TestCartUsecase_MalformedSnapshotIsEmpty(t *testing.T) {
	cases := map[string]string{
		"not json":       `{items: nope`,
		"zero quantity":  `{"items":[{"id":1,"price":5,"quantity":0}]}`,
		"duplicate id":   `{"items":[{"id":1,"price":5,"quantity":1},{"id":1,"price":5,"quantity":2}]}`,
		"bad price type": `{"items":[{"id":1,"price":true,"quantity":1}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			kv := newMemKV()
			kv.data[usecase.CartStorageKey] = []byte(raw)

			core, logs := observer.New(zap.WarnLevel)
			uc := usecase.NewCartUsecase(context.Background(), kv, zap.New(core))

			s := uc.State()
			assert.Empty(t, s.Items)
			assert.Equal(t, 0, s.TotalItems)
			assert.Equal(t, 1, logs.FilterMessage("discarding cart snapshot").Len())
		})
	}
}

// 保存に失敗しても状態の更新は返す（ログのみ）
func TestCartUsecase_PersistFailureIsLogged(t *testing.T) {
	kv := newMemKV()
	kv.setErr = errors.New("disk full")

	core, logs := observer.New(zap.WarnLevel)
	uc := usecase.NewCartUsecase(context.Background(), kv, zap.New(core))

	s := uc.AddToCart(context.Background(), item(1, "10", 1))
	assert.Len(t, s.Items, 1)
	assert.Equal(t, 1, logs.FilterMessage("failed to persist cart snapshot").Len())
}

func TestCartUsecase_ConcurrentAdds(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.AddToCart(ctx, item(1, "1", 1))
		}()
	}
	wg.Wait()

	s := uc.State()
	require.Len(t, s.Items, 1)
	assert.Equal(t, 50, s.Items[0].Quantity)
	assert.Equal(t, "50", s.TotalAmount.String())
}

// =====================
// 数量の上限
// =====================

// int を超える加算は無視され、保存済みのカートも壊れない
func TestCartUsecase_AddToCart_OverflowIgnored(t *testing.T) {
	kv := newMemKV()
	uc := newCart(t, kv)
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "1", math.MaxInt))
	s := uc.AddToCart(ctx, item(1, "1", 2))

	require.Len(t, s.Items, 1)
	assert.Equal(t, math.MaxInt, s.Items[0].Quantity)
	assert.Equal(t, math.MaxInt, s.TotalItems)

	// 別IDでも合計が溢れるなら無視
	s = uc.AddToCart(ctx, item(2, "1", 1))
	assert.Len(t, s.Items, 1)

	reloaded := newCart(t, kv).State()
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, math.MaxInt, reloaded.Items[0].Quantity)
}

func TestCartUsecase_UpdateQuantity_OverflowIgnored(t *testing.T) {
	uc := newCart(t, newMemKV())
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "1", 2))
	uc.AddToCart(ctx, item(2, "1", 3))

	s := uc.UpdateQuantity(ctx, 1, math.MaxInt)
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, 5, s.TotalItems)

	// 単独なら上限まで置ける
	s = uc.UpdateQuantity(ctx, 2, math.MaxInt-2)
	assert.Equal(t, math.MaxInt, s.TotalItems)
}

func TestCartUsecase_TakeCart(t *testing.T) {
	kv := newMemKV()
	uc := newCart(t, kv)
	ctx := context.Background()

	uc.AddToCart(ctx, item(1, "10", 2))
	taken := uc.TakeCart(ctx)

	require.Len(t, taken.Items, 1)
	assert.Equal(t, "20", taken.TotalAmount.String())
	assert.True(t, uc.State().IsEmpty())
	assert.False(t, kv.has(usecase.CartStorageKey))
}
