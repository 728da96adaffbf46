package repository

import (
	"context"
	"errors"

	"evimeria/internal/domain/model"
	domainrepo "evimeria/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type customerGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewCustomerGormRepository(db *gorm.DB) domainrepo.CustomerRepository {
	return &customerGormRepository{db: db}
}

func (r *customerGormRepository) Create(ctx context.Context, c *model.Customer) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if isUniqueViolation(err) {
		return domainrepo.ErrCustomerEmailTaken
	}
	return err
}

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// emailで会員を1件取得
func (r *customerGormRepository) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer

	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainrepo.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IDで会員を1件取得
func (r *customerGormRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer

	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainrepo.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerGormRepository) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}
