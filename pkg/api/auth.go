package api

import "time"

// Статусы ответа
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the JSON body of every response
type Envelope[T any] struct {
	Data      T      `json:"data,omitzero"`        // полезная нагрузка
	Status    string `json:"status"`               // success, fail или error
	Message   string `json:"message,omitempty"`    // человекочитаемое сообщение
	AuthToken string `json:"auth_token,omitempty"` // токен после регистрации или входа
}

// MessageResponse is an envelope without payload
type MessageResponse = Envelope[struct{}]

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию
// Достаточно указать email или username
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

// Identifier returns email if set, otherwise username
func (r LoginRequest) Identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

// User is the public view of an identity
type User struct {
	CreatedAt time.Time `json:"created_at"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ID        int64     `json:"id"`
	Active    bool      `json:"active"`
}
