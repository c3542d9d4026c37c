package api

// CreateUserRequest представляет запрос POST /users
type CreateUserRequest = RegisterRequest

// UserList is the payload of GET /users
type UserList struct {
	Users []User `json:"users"`
}
