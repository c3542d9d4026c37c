package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/usersauth/pkg/api"
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status     string // status из тела ответа: fail или error
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BaseURL returns the server address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping проверяет доступность сервера
func (c *Client) Ping(ctx context.Context) error {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodGet, "/ping", "", nil, &resp); err != nil {
		return fmt.Errorf("ping request failed: %w", err)
	}
	return nil
}

// Register регистрирует нового пользователя и возвращает его токен
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (string, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return "", fmt.Errorf("register request failed: %w", err)
	}
	return resp.AuthToken, nil
}

// Login выполняет аутентификацию пользователя и возвращает токен
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (string, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	return resp.AuthToken, nil
}

// Logout отзывает токен на сервере
func (c *Client) Logout(ctx context.Context, token string) error {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodGet, "/auth/logout", token, nil, &resp); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Status возвращает пользователя, которому принадлежит токен
func (c *Client) Status(ctx context.Context, token string) (*api.User, error) {
	var resp api.Envelope[api.User]
	if err := c.doRequest(ctx, http.MethodGet, "/auth/status", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	return &resp.Data, nil
}

// CreateUser создает пользователя от имени владельца токена
// Возвращает сообщение сервера
func (c *Client) CreateUser(ctx context.Context, token string, req api.CreateUserRequest) (string, error) {
	var resp api.MessageResponse
	if err := c.doRequest(ctx, http.MethodPost, "/users", token, req, &resp); err != nil {
		return "", fmt.Errorf("create user request failed: %w", err)
	}
	return resp.Message, nil
}

// ListUsers возвращает всех пользователей, новые первыми
func (c *Client) ListUsers(ctx context.Context) ([]api.User, error) {
	var resp api.Envelope[api.UserList]
	if err := c.doRequest(ctx, http.MethodGet, "/users", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("list users request failed: %w", err)
	}
	return resp.Data.Users, nil
}

// GetUser возвращает пользователя по ID
func (c *Client) GetUser(ctx context.Context, id int64) (*api.User, error) {
	var resp api.Envelope[api.User]
	path := "/users/" + strconv.FormatInt(id, 10)
	if err := c.doRequest(ctx, http.MethodGet, path, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &resp.Data, nil
}

// doRequest выполняет HTTP запрос
// token добавляется в заголовок Authorization, если не пустой
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp api.MessageResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			apiErr.Status = errResp.Status
			apiErr.Message = errResp.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
