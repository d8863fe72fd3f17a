package validator

import (
	"context"
	"errors"
	"strings"

	"cardstash/internal/usecase"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

type loginValidator struct{}

// Usecaseは interface を依存注入
func NewLoginValidator() usecase.LoginValidator {
	return &loginValidator{}
}

// ログインの入力を検証
func (v *loginValidator) ValidateLogin(_ context.Context, userName string, password string) error {
	userName = strings.TrimSpace(userName)

	// 必須チェック
	if userName == "" || password == "" {
		return ErrInvalidInput
	}

	// bcryptは72バイトまでしか見ない
	if len(userName) > 100 || len(password) > 72 {
		return ErrInvalidInput
	}
	return nil
}
