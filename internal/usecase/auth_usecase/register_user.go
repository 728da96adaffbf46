package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"evimeria/internal/domain/model"
	"evimeria/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
	ErrWeakPassword       = errors.New("weak password")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")
)

const (
	minPasswordLength = 8
	// bcrypt が扱える上限（バイト数）
	maxPasswordBytes = 72
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUsecaseは会員登録の処理。登録後そのままトークンも返す。
type RegisterUsecase struct {
	customers repository.CustomerRepository
	hasher    PasswordHasher
	issuer    AccessTokenIssuer
	clock     Clock
}

// DI
func NewRegisterUsecase(
	customers repository.CustomerRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
) *RegisterUsecase {
	return &RegisterUsecase{
		customers: customers,
		hasher:    hasher,
		issuer:    issuer,
		clock:     clock,
	}
}

// 会員登録実行
func (u *RegisterUsecase) Execute(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	// emailの形式チェック
	if !isValidEmailFormat(email) {
		return AuthOutput{}, ErrInvalidEmailFormat
	}
	if len(in.Password) < minPasswordLength {
		return AuthOutput{}, ErrPasswordTooShort
	}
	if len(in.Password) > maxPasswordBytes {
		return AuthOutput{}, ErrPasswordTooLong
	}
	if isWeakPassword(in.Password) {
		return AuthOutput{}, ErrWeakPassword
	}

	// email重複チェック
	existing, err := u.customers.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return AuthOutput{}, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrCustomerNotFound) {
		return AuthOutput{}, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return AuthOutput{}, err
	}

	now := u.clock.Now()
	customer := &model.Customer{
		Email:        email,
		PasswordHash: hashed, // 平文は保存しない
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.customers.Create(ctx, customer); err != nil {
		// 同時登録で確認後に入られた
		if errors.Is(err, repository.ErrCustomerEmailTaken) {
			return AuthOutput{}, ErrEmailAlreadyExists
		}
		return AuthOutput{}, err
	}

	return issueFor(u.issuer, customer, now)
}

// メールチェック
func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// よくある弱いパスワード
var weakPasswords = map[string]struct{}{
	"password":     {},
	"password123":  {},
	"123456789012": {},
	"1234567890":   {},
	"12345678":     {},
	"qwertyuiop":   {},
	"azertyuiop":   {},
	"motdepasse":   {},
	"admin123":     {},
}

func isWeakPassword(password string) bool {
	_, ok := weakPasswords[strings.ToLower(strings.TrimSpace(password))]
	return ok
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
