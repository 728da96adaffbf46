package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"evimeria/internal/domain/model"
	"evimeria/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

// handlerがJSONにして返す（登録・ログイン共通）
type AuthOutput struct {
	Customer model.Customer `json:"user"`
	Token    JwtAccessToken `json:"token"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済み会員
var ErrCustomerInactive = errors.New("customer is inactive")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(customerID int64, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	customers repository.CustomerRepository
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

// DI
func NewLoginUsecase(
	customers repository.CustomerRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		customers: customers,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthOutput{}, ErrInvalidCredentials
	}

	//emailで会員取得
	customer, err := u.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrCustomerNotFound) {
			return AuthOutput{}, ErrInvalidCredentials
		}
		return AuthOutput{}, err
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, customer.PasswordHash); !ok {
		return AuthOutput{}, ErrInvalidCredentials
	}

	//停止会員はログイン不可
	if !customer.IsActive {
		return AuthOutput{}, ErrCustomerInactive
	}

	//最終ログイン時刻更新
	now := u.clock.Now()
	customer.LastLoginAt = &now
	if err := u.customers.Update(ctx, customer); err != nil {
		return AuthOutput{}, err
	}

	return issueFor(u.issuer, customer, now)
}

func issueFor(issuer AccessTokenIssuer, c *model.Customer, now time.Time) (AuthOutput, error) {
	token, exp, err := issuer.Issue(c.ID, c.TokenVersion, now)
	if err != nil {
		return AuthOutput{}, err
	}

	return AuthOutput{
		Customer: *c,
		Token: JwtAccessToken{
			AccessToken:  token,
			ExpiresIn:    int(exp.Sub(now).Seconds()),
			TokenVersion: c.TokenVersion,
		},
	}, nil
}
