package validator

import (
	"errors"
	"regexp"
	"strings"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

var emailLike = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 会員登録の入力（必須だけ、形式・強度・重複は usecase 側）
func ValidateRegister(email string, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return ErrInvalidInput
	}
	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return ErrInvalidInput
	}

	// email形式
	if !emailLike.MatchString(email) {
		return ErrInvalidInput
	}
	return nil
}
