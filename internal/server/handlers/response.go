package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/pkg/api"
)

// Сообщения ответов
const (
	MsgInvalidPayload   = "Invalid payload."
	MsgUserExists       = "Sorry. That user already exists."
	MsgEmailExists      = "Sorry. That email already exists."
	MsgUserDoesNotExist = "User does not exist."
	MsgInvalidToken     = "Invalid token. Please log in again."
	MsgTokenExpired     = "Signature expired. Please log in again."
	MsgContactUs        = "Something went wrong. Please contact us."
	MsgRegistered       = "Successfully registered."
	MsgLoggedIn         = "Successfully logged in."
	MsgLoggedOut        = "Successfully logged out."
)

// sendJSON отправляет JSON ответ
func sendJSON(w http.ResponseWriter, logger *slog.Logger, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendMessage отправляет ответ без полезной нагрузки
func sendMessage(w http.ResponseWriter, logger *slog.Logger, status, message string, statusCode int) {
	sendJSON(w, logger, api.MessageResponse{Status: status, Message: message}, statusCode)
}

// WriteAuthError translates an authorization failure into the JSON envelope.
// Rejections become 401 with a state specific message, anything else is 500.
func WriteAuthError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var rejectErr *auth.RejectError
	if !errors.As(err, &rejectErr) {
		logger.Error("authorization failed", slog.Any("error", err))
		sendMessage(w, logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		return
	}

	logger.Warn("authorization rejected", slog.String("state", rejectErr.State.String()))

	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		sendMessage(w, logger, api.StatusFail, MsgTokenExpired, http.StatusUnauthorized)
	case errors.Is(err, auth.ErrTokenMalformed), errors.Is(err, auth.ErrTokenRevoked):
		// отозванный токен неотличим для клиента от невалидного
		sendMessage(w, logger, api.StatusFail, MsgInvalidToken, http.StatusUnauthorized)
	default:
		sendMessage(w, logger, api.StatusFail, MsgContactUs, http.StatusUnauthorized)
	}
}

func toAPIUser(user *models.User) api.User {
	return api.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
	}
}
