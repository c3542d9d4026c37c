package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyPassword возвращается при попытке захешировать пустой пароль
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordMismatch означает, что пароль не соответствует хешу
	ErrPasswordMismatch = errors.New("password does not match hash")
)

// DefaultCost is the bcrypt work factor used when none is configured
const DefaultCost = bcrypt.DefaultCost

// HashPassword хеширует пароль с помощью bcrypt.
// bcrypt генерирует случайную соль для каждого вызова, поэтому одинаковые
// пароли разных пользователей дают разные хеши.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword проверяет, соответствует ли пароль сохраненному хешу
// Returns ErrPasswordMismatch for a wrong password
func VerifyPassword(password, hash string) error {
	if hash == "" {
		return fmt.Errorf("hashed password cannot be empty")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("failed to compare password: %w", err)
	}

	return nil
}
