package repository

import (
	"context"
	"errors"

	"evimeria/internal/domain/model"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	// email の一意制約に当たった
	ErrCustomerEmailTaken = errors.New("customer email already registered")
)

// 会員の保存・取得を約束
type CustomerRepository interface {
	// email が既にあれば ErrCustomerEmailTaken
	Create(ctx context.Context, c *model.Customer) error
	// 見つからなければ ErrCustomerNotFound
	FindByID(ctx context.Context, id int64) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	// 最終ログインなど
	Update(ctx context.Context, c *model.Customer) error
}
