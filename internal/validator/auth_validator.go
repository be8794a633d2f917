package validator

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"invitation/internal/repository"
	"invitation/internal/usecase"
	auth "invitation/internal/usecase/auth_usecase"
)

type authValidator struct {
	users repository.UserRepository
}

// Usecaseは interface を依存注入
func NewAuthValidator(users repository.UserRepository) auth.InputValidator {
	return &authValidator{users: users}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, in auth.RegisterUserInput) error {
	ve := usecase.NewValidationError()

	requiredMax(ve, "name", in.Name, 255, "Name is required.", "Name cannot exceed 255 characters.")

	email := strings.TrimSpace(in.Email)
	if email == "" {
		ve.Add("email", "Email is required.")
	} else if !isValidEmailFormat(email) {
		ve.Add("email", "Email must be a valid email address.")
	}

	// パスワード最低文字数（8）
	switch {
	case in.Password == "":
		ve.Add("password", "Password is required.")
	case utf8.RuneCountInString(in.Password) < 8:
		ve.Add("password", "Password must be at least 8 characters.")
	case isWeakPassword(in.Password):
		ve.Add("password", "Password is too common.")
	}

	if _, ok := ve.Fields["email"]; ok {
		return ve.OrNil()
	}

	// email重複チェック（DBが必要）
	u, err := v.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err == nil && u != nil {
		ve.Add("email", "The email has already been taken.")
	}

	return ve.OrNil()
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(ctx context.Context, in auth.LoginInput) error {
	ve := usecase.NewValidationError()

	if strings.TrimSpace(in.Email) == "" {
		ve.Add("email", "Email is required.")
	}
	if in.Password == "" {
		ve.Add("password", "Password is required.")
	}
	return ve.OrNil()
}

// メールチェック
func isValidEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	// "Name <a@b>" 形式は受けない
	return err == nil && addr.Address == email
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":     {},
		"password123":  {},
		"123456789012": {},
		"1234567890":   {},
		"12345678":     {},
		"qwertyuiop":   {},
		"letmein123":   {},
		"admin123":     {},
	}

	_, ok := weak[normalized]
	return ok
}
