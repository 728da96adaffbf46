package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// カートの明細（商品IDで一意）
// price は文字列で保存されていても decimal が数値として読む。
type CartItem struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
	Slug     string          `json:"slug"`
}

// カート全体のスナップショット
type CartState struct {
	Items       []CartItem      `json:"items"`
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// 保存形式では price を数値で書く
func (it CartItem) MarshalJSON() ([]byte, error) {
	type plain CartItem
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(it), Price: json.Number(it.Price.String())})
}

// totalAmount も数値
func (s CartState) MarshalJSON() ([]byte, error) {
	type plain CartState
	return json.Marshal(struct {
		plain
		TotalAmount json.Number `json:"totalAmount"`
	}{plain: plain(s), TotalAmount: json.Number(s.TotalAmount.String())})
}

func EmptyCartState() CartState {
	return CartState{
		Items:       []CartItem{},
		TotalItems:  0,
		TotalAmount: decimal.Zero,
	}
}

// 明細から合計を毎回作り直す
func (s *CartState) Recalculate() {
	totalItems := 0
	totalAmount := decimal.Zero
	for _, it := range s.Items {
		totalItems += it.Quantity
		totalAmount = totalAmount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	s.TotalItems = totalItems
	s.TotalAmount = totalAmount
}

// 呼び出し側に渡すコピー
func (s CartState) Clone() CartState {
	items := make([]CartItem, len(s.Items))
	copy(items, s.Items)
	return CartState{
		Items:       items,
		TotalItems:  s.TotalItems,
		TotalAmount: s.TotalAmount,
	}
}

func (s CartState) Find(id int64) (CartItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return it, true
		}
	}
	return CartItem{}, false
}

func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}
