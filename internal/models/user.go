package models

import "time"

// User представляет identity в системе
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время создания
	Username     string    `json:"username"`   // уникальный username
	Email        string    `json:"email"`      // уникальный email
	PasswordHash string    `json:"-"`          // bcrypt хеш пароля, наружу не отдается
	ID           int64     `json:"id"`         // автоинкрементный ID
	Active       bool      `json:"active"`     // false = учетная запись отключена администратором
}

// RevokedToken представляет токен, отозванный до истечения срока (logout)
type RevokedToken struct {
	RevokedAt time.Time `json:"revoked_at"` // время отзыва
	ExpiresAt time.Time `json:"expires_at"` // естественное время истечения токена, для compaction
	Token     string    `json:"token"`      // исходная строка токена
}
