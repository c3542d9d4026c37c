package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/pkg/api"
)

// maxBodyBytes ограничивает размер JSON тела запроса
const maxBodyBytes = 1 << 20

// Authenticator issues tokens and revokes sessions
type Authenticator interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, identifier, password string) (*models.User, string, error)
	Revoke(ctx context.Context, session *auth.Session) error
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger *slog.Logger
	auth   Authenticator
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, authenticator Authenticator) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		auth:   authenticator,
	}
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendMessage(w, h.logger, api.StatusError, MsgInvalidPayload, http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			h.logger.WarnContext(ctx, "invalid registration payload", slog.Any("error", err))
			sendMessage(w, h.logger, api.StatusError, MsgInvalidPayload, http.StatusBadRequest)
		case errors.Is(err, auth.ErrConflict):
			h.logger.WarnContext(ctx, "user already exists", slog.String("username", req.Username))
			sendMessage(w, h.logger, api.StatusError, MsgUserExists, http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to register user", slog.Any("error", err))
			sendMessage(w, h.logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.ID))

	sendJSON(w, h.logger, api.MessageResponse{
		Status:    api.StatusSuccess,
		Message:   MsgRegistered,
		AuthToken: token,
	}, http.StatusCreated)
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendMessage(w, h.logger, api.StatusError, MsgInvalidPayload, http.StatusBadRequest)
		return
	}

	user, token, err := h.auth.Login(ctx, req.Identifier(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			sendMessage(w, h.logger, api.StatusError, MsgInvalidPayload, http.StatusBadRequest)
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrPasswordMismatch):
			// Неверный пароль и неизвестный пользователь неразличимы для клиента
			h.logger.WarnContext(ctx, "login failed", slog.Any("error", err))
			sendMessage(w, h.logger, api.StatusFail, MsgUserDoesNotExist, http.StatusNotFound)
		case errors.Is(err, auth.ErrAccountInactive):
			sendMessage(w, h.logger, api.StatusFail, MsgContactUs, http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "failed to log in", slog.Any("error", err))
			sendMessage(w, h.logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully", slog.Int64("user_id", user.ID))

	sendJSON(w, h.logger, api.MessageResponse{
		Status:    api.StatusSuccess,
		Message:   MsgLoggedIn,
		AuthToken: token,
	}, http.StatusOK)
}

// Logout обрабатывает GET /auth/logout
// Токен сессии отзывается до истечения его собственного срока
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session, ok := GetSession(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "session not found in context")
		sendMessage(w, h.logger, api.StatusFail, MsgInvalidToken, http.StatusUnauthorized)
		return
	}

	if err := h.auth.Revoke(ctx, session); err != nil {
		h.logger.ErrorContext(ctx, "failed to revoke token", slog.Any("error", err))
		sendMessage(w, h.logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged out successfully", slog.Int64("user_id", session.User.ID))

	sendMessage(w, h.logger, api.StatusSuccess, MsgLoggedOut, http.StatusOK)
}

// Status обрабатывает GET /auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	session, ok := GetSession(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "session not found in context")
		sendMessage(w, h.logger, api.StatusFail, MsgInvalidToken, http.StatusUnauthorized)
		return
	}

	sendJSON(w, h.logger, api.Envelope[api.User]{
		Status: api.StatusSuccess,
		Data:   toAPIUser(session.User),
	}, http.StatusOK)
}

// decodeJSON читает тело запроса; пустое тело и пустой объект считаются ошибкой
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return errEmptyPayload
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dst)
}

var errEmptyPayload = errors.New("empty payload")
