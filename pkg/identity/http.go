package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Config contains the directory endpoint and its service-role key.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient implements Client against the directory's admin REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPClient constructs a directory client.
func NewHTTPClient(cfg Config, logger zerolog.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("identity directory URL and API key must be provided")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "identity").Logger(),
	}, nil
}

type accountPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *HTTPClient) CreateUser(ctx context.Context, email, password, name, role string) (Account, error) {
	body := map[string]interface{}{
		"email":         email,
		"password":      password,
		"email_confirm": true,
		"user_metadata": map[string]string{"name": name, "role": role},
	}

	var payload accountPayload
	status, err := c.do(ctx, http.MethodPost, "/admin/users", body, &payload)
	if err != nil {
		return Account{}, err
	}

	switch {
	case status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return Account{}, ErrDuplicate
	case status >= 500:
		return Account{}, ErrUnavailable
	case status >= 400:
		return Account{}, fmt.Errorf("identity: create user failed with status %d", status)
	}

	c.logger.Info().Str("account_id", payload.ID).Msg("directory account provisioned")
	return Account{ID: payload.ID, Email: payload.Email}, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, accountID string) error {
	status, err := c.do(ctx, http.MethodDelete, "/admin/users/"+accountID, nil, nil)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrUnavailable
	case status >= 400:
		return fmt.Errorf("identity: delete user failed with status %d", status)
	}

	c.logger.Info().Str("account_id", accountID).Msg("directory account removed")
	return nil
}

func (c *HTTPClient) VerifyPassword(ctx context.Context, email, password string) (Account, error) {
	body := map[string]string{"email": email, "password": password}

	var payload struct {
		User accountPayload `json:"user"`
	}
	status, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", body, &payload)
	if err != nil {
		return Account{}, err
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return Account{}, ErrNotFound
	case status >= 500:
		return Account{}, ErrUnavailable
	case status >= 400:
		return Account{}, fmt.Errorf("identity: password grant failed with status %d", status)
	}

	return Account{ID: payload.User.ID, Email: payload.User.Email}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) (int, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("identity: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("directory request failed")
		return 0, ErrUnavailable
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("identity: decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
