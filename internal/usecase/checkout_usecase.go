package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"evimeria/internal/domain/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidCheckout      = errors.New("invalid checkout information")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// チェックアウトが使うカート操作
type CheckoutCart interface {
	State() model.CartState
	// 中身を取り出して空にする（一度のロックで）
	TakeCart(ctx context.Context) model.CartState
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// 注文のシミュレーション（決済・保存はしない）
type CheckoutUsecase struct {
	cart   CheckoutCart
	idGen  IDGenerator
	clock  Clock
	logger *zap.Logger
}

// DI
func NewCheckoutUsecase(cart CheckoutCart, idGen IDGenerator, clock Clock, logger *zap.Logger) *CheckoutUsecase {
	return &CheckoutUsecase{
		cart:   cart,
		idGen:  idGen,
		clock:  clock,
		logger: logger,
	}
}

type CheckoutInput struct {
	Shipping      model.ShippingInfo
	PaymentMethod model.PaymentMethod
}

// 送料は無料
var shippingFee = decimal.Zero

// PlaceOrder はカートから注文の控えを作り、カートを空にする。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in CheckoutInput) (model.OrderReceipt, error) {
	state := u.cart.State()
	if state.IsEmpty() {
		return model.OrderReceipt{}, ErrEmptyCart
	}

	shipping, err := normalizeShipping(in.Shipping)
	if err != nil {
		return model.OrderReceipt{}, err
	}

	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentCreditCard
	}
	if !method.Valid() {
		return model.OrderReceipt{}, ErrInvalidPaymentMethod
	}

	// 検証のあとに取り出す。間に変わっていても控えと消した中身は一致する
	state = u.cart.TakeCart(ctx)
	if state.IsEmpty() {
		return model.OrderReceipt{}, ErrEmptyCart
	}

	receipt := model.OrderReceipt{
		OrderNumber:   u.orderNumber(),
		Status:        model.OrderStatusPending,
		PaymentMethod: method,
		Shipping:      shipping,
		Items:         state.Items,
		Subtotal:      state.TotalAmount,
		ShippingFee:   shippingFee,
		Total:         state.TotalAmount.Add(shippingFee),
		CreatedAt:     u.clock.Now(),
	}

	u.logger.Info("order placed",
		zap.String("order_number", receipt.OrderNumber),
		zap.Int("items", state.TotalItems),
		zap.String("total", receipt.Total.StringFixed(2)),
		zap.String("payment_method", string(method)),
	)
	return receipt, nil
}

// CMD- + IDの先頭8文字（大文字）
func (u *CheckoutUsecase) orderNumber() string {
	id := strings.ReplaceAll(u.idGen.NewID(), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return "CMD-" + strings.ToUpper(id)
}

func normalizeShipping(s model.ShippingInfo) (model.ShippingInfo, error) {
	s = model.ShippingInfo{
		FirstName:  strings.TrimSpace(s.FirstName),
		LastName:   strings.TrimSpace(s.LastName),
		Email:      strings.TrimSpace(s.Email),
		Address:    strings.TrimSpace(s.Address),
		City:       strings.TrimSpace(s.City),
		PostalCode: strings.TrimSpace(s.PostalCode),
		Country:    strings.TrimSpace(s.Country),
	}

	// 必須チェック
	for _, v := range []string{s.FirstName, s.LastName, s.Email, s.Address, s.City, s.PostalCode, s.Country} {
		if v == "" {
			return model.ShippingInfo{}, ErrInvalidCheckout
		}
	}
	if _, err := mail.ParseAddress(s.Email); err != nil {
		return model.ShippingInfo{}, ErrInvalidCheckout
	}
	return s, nil
}
