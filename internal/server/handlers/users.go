package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/usersauth/internal/models"
	"github.com/iudanet/usersauth/internal/server/auth"
	"github.com/iudanet/usersauth/internal/server/storage"
	"github.com/iudanet/usersauth/pkg/api"
)

// UserRegistrar creates identities without issuing tokens
type UserRegistrar interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
}

// UserReader reads identities
type UserReader interface {
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// UsersHandler обрабатывает запросы /users
type UsersHandler struct {
	logger    *slog.Logger
	registrar UserRegistrar
	users     UserReader
}

// NewUsersHandler создает новый handler для пользователей
func NewUsersHandler(logger *slog.Logger, registrar UserRegistrar, users UserReader) *UsersHandler {
	return &UsersHandler{
		logger:    logger,
		registrar: registrar,
		users:     users,
	}
}

// Create обрабатывает POST /users (только для авторизованных)
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode create user request", slog.Any("error", err))
		sendMessage(w, h.logger, api.StatusFail, MsgInvalidPayload, http.StatusBadRequest)
		return
	}

	user, err := h.registrar.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidInput):
			sendMessage(w, h.logger, api.StatusFail, MsgInvalidPayload, http.StatusBadRequest)
		case errors.Is(err, auth.ErrConflict):
			sendMessage(w, h.logger, api.StatusFail, MsgEmailExists, http.StatusBadRequest)
		default:
			h.logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
			sendMessage(w, h.logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		}
		return
	}

	h.logger.InfoContext(ctx, "user created", slog.Int64("user_id", user.ID))

	sendMessage(w, h.logger, api.StatusSuccess, fmt.Sprintf("%s was added!", user.Email), http.StatusCreated)
}

// List обрабатывает GET /users
// Пользователи возвращаются от новых к старым
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendMessage(w, h.logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		return
	}

	list := api.UserList{Users: make([]api.User, 0, len(users))}
	for _, user := range users {
		list.Users = append(list.Users, toAPIUser(user))
	}

	sendJSON(w, h.logger, api.Envelope[api.UserList]{
		Status: api.StatusSuccess,
		Data:   list,
	}, http.StatusOK)
}

// Get обрабатывает GET /users/{id}
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Нечисловой id обрабатывается так же, как несуществующий
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		sendMessage(w, h.logger, api.StatusFail, "User does not exist", http.StatusNotFound)
		return
	}

	user, err := h.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendMessage(w, h.logger, api.StatusFail, "User does not exist", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendMessage(w, h.logger, api.StatusError, MsgContactUs, http.StatusInternalServerError)
		return
	}

	sendJSON(w, h.logger, api.Envelope[api.User]{
		Status: api.StatusSuccess,
		Data:   toAPIUser(user),
	}, http.StatusOK)
}
