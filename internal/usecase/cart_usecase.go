package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sync"

	"evimeria/internal/domain/model"
	repo "evimeria/internal/repository"

	"go.uber.org/zap"
)

// スナップショットを保存するキー
const CartStorageKey = "cart"

var errMalformedSnapshot = errors.New("malformed cart snapshot")

// CartUsecase はカートの状態を持つ唯一の場所。
// 変更は AddToCart / RemoveFromCart / UpdateQuantity / ClearCart だけで行い、
// 毎回 合計の再計算 → 保存 まで終えてから返す。
type CartUsecase struct {
	mu     sync.Mutex
	state  model.CartState
	kv     repo.KeyValueStore
	logger *zap.Logger
}

// DI（保存済みのカートがあれば読み込む）
func NewCartUsecase(ctx context.Context, kv repo.KeyValueStore, logger *zap.Logger) *CartUsecase {
	u := &CartUsecase{
		kv:     kv,
		logger: logger,
	}
	u.state = u.loadSnapshot(ctx)
	return u
}

// 現在のカート（コピー）
func (u *CartUsecase) State() model.CartState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.Clone()
}

// AddToCart はカートに追加（同一IDは数量だけ加算、名前・価格・画像は最初のまま）。
func (u *CartUsecase) AddToCart(ctx context.Context, item model.CartItem) model.CartState {
	u.mu.Lock()
	defer u.mu.Unlock()

	// 数量は1以上
	if item.Quantity < 1 {
		u.logger.Debug("add to cart ignored", zap.Int64("id", item.ID), zap.Int("quantity", item.Quantity))
		return u.state.Clone()
	}

	// 合計数が int を超える追加は無視
	if u.state.TotalItems > math.MaxInt-item.Quantity {
		u.logger.Debug("add to cart ignored", zap.Int64("id", item.ID), zap.Int("quantity", item.Quantity))
		return u.state.Clone()
	}

	if i := u.indexOf(item.ID); i >= 0 {
		u.state.Items[i].Quantity += item.Quantity
	} else {
		u.state.Items = append(u.state.Items, item)
	}

	u.commit(ctx)
	return u.state.Clone()
}

// 明細削除（数量に関係なく消す、無ければ何もしない）
func (u *CartUsecase) RemoveFromCart(ctx context.Context, id int64) model.CartState {
	u.mu.Lock()
	defer u.mu.Unlock()

	kept := make([]model.CartItem, 0, len(u.state.Items))
	for _, it := range u.state.Items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	u.state.Items = kept

	u.commit(ctx)
	return u.state.Clone()
}

// 数量変更。quantity <= 0 や存在しないIDは黙って無視する（削除は RemoveFromCart）。
func (u *CartUsecase) UpdateQuantity(ctx context.Context, id int64, quantity int) model.CartState {
	u.mu.Lock()
	defer u.mu.Unlock()

	i := u.indexOf(id)
	if i < 0 || quantity <= 0 || u.state.TotalItems-u.state.Items[i].Quantity > math.MaxInt-quantity {
		u.logger.Debug("update quantity ignored", zap.Int64("id", id), zap.Int("quantity", quantity))
		return u.state.Clone()
	}

	u.state.Items[i].Quantity = quantity

	u.commit(ctx)
	return u.state.Clone()
}

// カートを空にして、保存済みのスナップショットも消す
func (u *CartUsecase) ClearCart(ctx context.Context) model.CartState {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.clear(ctx)
	return u.state.Clone()
}

// TakeCart は空にする直前の中身を返す（同じロックの中で取り出して消す）。
func (u *CartUsecase) TakeCart(ctx context.Context) model.CartState {
	u.mu.Lock()
	defer u.mu.Unlock()

	taken := u.state.Clone()
	u.clear(ctx)
	return taken
}

func (u *CartUsecase) clear(ctx context.Context) {
	u.state = model.EmptyCartState()
	if err := u.kv.Remove(ctx, CartStorageKey); err != nil {
		u.logger.Warn("failed to remove cart snapshot", zap.Error(err))
	}
}

func (u *CartUsecase) indexOf(id int64) int {
	for i, it := range u.state.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// 合計を作り直して保存（保存失敗はログだけ、リトライしない）
func (u *CartUsecase) commit(ctx context.Context) {
	u.state.Recalculate()

	data, err := json.Marshal(u.state)
	if err != nil {
		u.logger.Warn("failed to encode cart snapshot", zap.Error(err))
		return
	}
	if err := u.kv.Set(ctx, CartStorageKey, data); err != nil {
		u.logger.Warn("failed to persist cart snapshot", zap.Error(err))
	}
}

// 保存済みカートを読む。無い・壊れている場合は空のカート。
func (u *CartUsecase) loadSnapshot(ctx context.Context) model.CartState {
	data, err := u.kv.Get(ctx, CartStorageKey)
	if errors.Is(err, repo.ErrKeyNotFound) {
		return model.EmptyCartState()
	}
	if err != nil {
		u.logger.Warn("failed to read cart snapshot", zap.Error(err))
		return model.EmptyCartState()
	}

	state, err := decodeCartSnapshot(data)
	if err != nil {
		u.logger.Warn("discarding cart snapshot", zap.Error(err))
		return model.EmptyCartState()
	}
	return state
}

func decodeCartSnapshot(data []byte) (model.CartState, error) {
	var state model.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.CartState{}, fmt.Errorf("%w: %v", errMalformedSnapshot, err)
	}

	seen := make(map[int64]struct{}, len(state.Items))
	total := 0
	for _, it := range state.Items {
		if it.Quantity < 1 || total > math.MaxInt-it.Quantity {
			return model.CartState{}, fmt.Errorf("%w: item %d has quantity %d", errMalformedSnapshot, it.ID, it.Quantity)
		}
		if _, dup := seen[it.ID]; dup {
			return model.CartState{}, fmt.Errorf("%w: duplicate item %d", errMalformedSnapshot, it.ID)
		}
		seen[it.ID] = struct{}{}
		total += it.Quantity
	}
	if state.Items == nil {
		state.Items = []model.CartItem{}
	}

	// 保存された合計は信用しない
	state.Recalculate()
	return state, nil
}
