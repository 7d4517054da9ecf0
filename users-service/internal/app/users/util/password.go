package util

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost стоимость bcrypt для учетных записей back-office
const passwordCost = 12

var ErrWeakPassword = errors.New("password must contain a letter and a digit and must not contain the email name")

// HashPassword bcrypt отклоняет пароли длиннее 72 байт
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ValidatePassword минимальная политика паролей менеджеров
func ValidatePassword(password, email string) error {
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}

	name, _, _ := strings.Cut(strings.ToLower(email), "@")
	if len(name) >= 3 && strings.Contains(strings.ToLower(password), name) {
		return ErrWeakPassword
	}
	return nil
}
