package auth

import (
	"context"
	"errors"

	"evimeria/internal/domain/model"
	"evimeria/internal/repository"
)

var ErrCustomerNotFound = errors.New("customer not found")

// ログイン中の会員情報
type ProfileUsecase struct {
	customers repository.CustomerRepository
}

// DI
func NewProfileUsecase(customers repository.CustomerRepository) *ProfileUsecase {
	return &ProfileUsecase{customers: customers}
}

func (u *ProfileUsecase) Execute(ctx context.Context, customerID int64) (model.Customer, error) {
	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repository.ErrCustomerNotFound) {
		return model.Customer{}, ErrCustomerNotFound
	}
	if err != nil {
		return model.Customer{}, err
	}
	return *c, nil
}
