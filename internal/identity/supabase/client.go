// Package supabase talks to the Supabase GoTrue auth API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"church-admin-go/internal/config"
	"church-admin-go/internal/identity"
)

const maxErrorBody = 4 << 10

type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	now     func() time.Time
}

type userResponse struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Sub          string         `json:"sub"`
	UserMetadata map[string]any `json:"user_metadata"`
	// Identities is nil when absent; GoTrue sends an empty list for an
	// obfuscated signup of an email that is already taken.
	Identities *[]json.RawMessage `json:"identities"`
	User       struct {
		ID         string             `json:"id"`
		Sub        string             `json:"sub"`
		Identities *[]json.RawMessage `json:"identities"`
	} `json:"user"`
}

// obfuscated reports whether a signup answer is the placeholder user GoTrue
// returns for an existing email when confirmations are enabled.
func (u userResponse) obfuscated() bool {
	for _, identities := range []*[]json.RawMessage{u.Identities, u.User.Identities} {
		if identities != nil && len(*identities) == 0 {
			return true
		}
	}
	return false
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        userResponse `json:"user"`
}

type errorResponse struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func New(cfg config.SupabaseConfig) (*Client, error) {
	baseURL := strings.TrimRight(cfg.URL, "/")
	if baseURL == "" || cfg.PublishableKey == "" {
		return nil, fmt.Errorf("supabase: %w", identity.ErrNotConfigured)
	}
	timeout := cfg.AuthTimeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.PublishableKey,
		client: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}, nil
}

func (c *Client) CreateIdentity(ctx context.Context, email, password, name string) (string, error) {
	body := map[string]any{
		"email":    normalizeEmail(email),
		"password": password,
		"data": map[string]string{
			"name": strings.TrimSpace(name),
		},
	}

	var payload userResponse
	status, apiErr, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", body, &payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		if apiErr.alreadyExists() {
			return "", identity.ErrAlreadyExists
		}
		return "", fmt.Errorf("supabase signup: status %d: %s", status, apiErr.message())
	}

	userID := firstNonEmpty(payload.ID, payload.User.ID, payload.Sub)
	if userID == "" || payload.obfuscated() {
		return "", identity.ErrAlreadyExists
	}
	return userID, nil
}

func (c *Client) Authenticate(ctx context.Context, email, password string) (string, error) {
	session, err := c.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	body := map[string]string{
		"email":    normalizeEmail(email),
		"password": password,
	}

	var payload tokenResponse
	status, apiErr, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", body, &payload)
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return nil, identity.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("supabase sign in: status %d: %s", status, apiErr.message())
	}

	userID := firstNonEmpty(payload.User.ID, payload.User.Sub)
	if payload.AccessToken == "" || userID == "" {
		return nil, fmt.Errorf("supabase sign in: incomplete session")
	}

	tokenType := payload.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	return &identity.Session{
		AccessToken: payload.AccessToken,
		TokenType:   tokenType,
		ExpiresAt:   c.now().UTC().Add(time.Duration(payload.ExpiresIn) * time.Second),
		UserID:      userID,
	}, nil
}

func (c *Client) Verify(ctx context.Context, token string) (identity.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return identity.Principal{}, identity.ErrInvalidToken
	}

	var payload userResponse
	status, apiErr, err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &payload)
	if err != nil {
		return identity.Principal{}, err
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return identity.Principal{}, identity.ErrInvalidToken
	default:
		return identity.Principal{}, fmt.Errorf("supabase verify: status %d: %s", status, apiErr.message())
	}

	userID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
	if userID == "" {
		return identity.Principal{}, identity.ErrInvalidToken
	}

	return identity.Principal{
		ID:    userID,
		Email: payload.Email,
		Name:  firstNonEmpty(stringFromMap(payload.UserMetadata, "name"), stringFromMap(payload.UserMetadata, "full_name")),
	}, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) (int, errorResponse, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, errorResponse{}, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, errorResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, errorResponse{}, fmt.Errorf("supabase request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return resp.StatusCode, errorResponse{}, fmt.Errorf("decode response: %w", err)
			}
		}
		return resp.StatusCode, errorResponse{}, nil
	}

	var apiErr errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_ = json.Unmarshal(raw, &apiErr)
	return resp.StatusCode, apiErr, nil
}

func (e errorResponse) alreadyExists() bool {
	if e.ErrorCode == "user_already_exists" || e.ErrorCode == "email_exists" {
		return true
	}
	return strings.Contains(strings.ToLower(e.message()), "already registered")
}

func (e errorResponse) message() string {
	return firstNonEmpty(e.Msg, e.Message, e.ErrorDescription, e.Error, e.ErrorCode)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]any, key string) string {
	if values == nil {
		return ""
	}
	value, ok := values[key]
	if !ok {
		return ""
	}
	parsed, ok := value.(string)
	if !ok {
		return ""
	}
	return parsed
}
