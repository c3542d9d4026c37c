package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope_OmitsEmptyFields(t *testing.T) {
	body, err := json.Marshal(MessageResponse{Status: StatusSuccess, Message: "pong!"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","message":"pong!"}`, string(body))
}

func TestEnvelope_WithData(t *testing.T) {
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := Envelope[User]{
		Status: StatusSuccess,
		Data:   User{ID: 1, Username: "michael", Email: "michael@realpython.com", Active: true, CreatedAt: createdAt},
	}

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "success",
		"data": {
			"id": 1,
			"username": "michael",
			"email": "michael@realpython.com",
			"active": true,
			"created_at": "2024-05-01T12:00:00Z"
		}
	}`, string(body))

	var decoded Envelope[User]
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, resp, decoded)
}

func TestLoginRequest_Identifier(t *testing.T) {
	tests := []struct {
		name string
		req  LoginRequest
		want string
	}{
		{name: "email wins", req: LoginRequest{Email: "a@test.com", Username: "alice"}, want: "a@test.com"},
		{name: "username fallback", req: LoginRequest{Username: "alice"}, want: "alice"},
		{name: "neither", req: LoginRequest{}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Identifier())
		})
	}
}
