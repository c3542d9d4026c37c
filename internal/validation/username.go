package validation

import (
	"errors"
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// UsernamePattern определяет допустимый формат username
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

const (
	// MinUsernameLen минимальная длина username
	MinUsernameLen = 3
	// MaxUsernameLen максимальная длина username
	MaxUsernameLen = 32
	// MinPasswordLen минимальная длина пароля
	MinPasswordLen = 4
	// MaxPasswordBytes bcrypt игнорирует все, что длиннее 72 байт
	MaxPasswordBytes = 72
	// MaxEmailLen максимальная длина email
	MaxEmailLen = 128
)

var usernameRules = []validation.Rule{
	validation.Required.Error("username cannot be empty"),
	validation.Length(MinUsernameLen, 0).Error(fmt.Sprintf("username must be at least %d characters long", MinUsernameLen)),
	validation.Length(0, MaxUsernameLen).Error(fmt.Sprintf("username must not exceed %d characters", MaxUsernameLen)),
	validation.Match(UsernamePattern).Error("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)"),
}

var emailRules = []validation.Rule{
	validation.Required.Error("email cannot be empty"),
	validation.Length(0, MaxEmailLen).Error(fmt.Sprintf("email must not exceed %d characters", MaxEmailLen)),
	is.Email.Error("email must be a valid email address"),
}

var passwordRules = []validation.Rule{
	validation.Required.Error("password cannot be empty"),
	validation.Length(MinPasswordLen, 0).Error(fmt.Sprintf("password must be at least %d characters long", MinPasswordLen)),
	validation.By(maxBytes(MaxPasswordBytes)),
}

// ValidateUsername проверяет, что username соответствует требованиям
// Формат: только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_)
// Длина: 3-32 символа
func ValidateUsername(username string) error {
	return validation.Validate(username, usernameRules...)
}

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	return validation.Validate(email, emailRules...)
}

// ValidatePassword проверяет минимальные требования к паролю
func ValidatePassword(password string) error {
	return validation.Validate(password, passwordRules...)
}

// Registration is the payload needed to create a new identity
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r Registration) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, usernameRules...),
		validation.Field(&r.Email, emailRules...),
		validation.Field(&r.Password, passwordRules...),
	)
}

// Login is the payload used to verify credentials.
// Identifier is either an email or a username.
type Login struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Validate will run validation rules
func (l Login) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Identifier, validation.Required, validation.Length(0, MaxEmailLen)),
		validation.Field(&l.Password, validation.Required, validation.By(maxBytes(MaxPasswordBytes))),
	)
}

func maxBytes(limit int) validation.RuleFunc {
	return func(value interface{}) error {
		s, ok := value.(string)
		if !ok {
			return errors.New("must be a string")
		}
		if len(s) > limit {
			return fmt.Errorf("must not exceed %d bytes", limit)
		}
		return nil
	}
}
