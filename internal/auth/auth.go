package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/idp-labs/shop-svc/internal/service/errs"
)

// Authenticator verifies a bearer credential and yields the stable user id
// issued by the external identity service.
type Authenticator interface {
	VerifyToken(ctx context.Context, token string) (int64, error)
}

// TokenResponse is the identity service's login response, passed through
// untouched. Credentials are never validated or stored locally.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisteredUser is the identity service's registration response.
type RegisteredUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Client talks to the external authentication service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given identity service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// MustNewClient creates a client configured from the environment.
func MustNewClient() *Client {
	baseURL := os.Getenv("AUTH_SERVICE_URL")
	if baseURL == "" {
		panic("AUTH_SERVICE_URL is not set")
	}

	return NewClient(baseURL)
}

// VerifyToken forwards the bearer token to the identity service. Any
// non-200 response maps to ErrUnauthenticated.
func (c *Client) VerifyToken(ctx context.Context, token string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/verify-token", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, errs.ErrUnauthenticated
	}

	var body struct {
		UserID int64 `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if body.UserID == 0 {
		return 0, errs.ErrUnauthenticated
	}

	return body.UserID, nil
}

// Login is a pure pass-through of the credentials to the identity service.
func (c *Client) Login(ctx context.Context, name, password string) (TokenResponse, error) {
	var token TokenResponse

	status, err := c.postJSON(ctx, "/login", map[string]string{
		"name":     name,
		"password": password,
	}, &token)
	if err != nil {
		return TokenResponse{}, err
	}
	if status != http.StatusOK {
		return TokenResponse{}, errs.ErrUnauthenticated
	}

	return token, nil
}

// Register forwards the registration to the identity service, which issues
// the user id. Expects 201 Created.
func (c *Client) Register(ctx context.Context, name, email, password string) (RegisteredUser, error) {
	var registered RegisteredUser

	status, err := c.postJSON(ctx, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &registered)
	if err != nil {
		return RegisteredUser{}, err
	}
	if status != http.StatusCreated {
		return RegisteredUser{}, fmt.Errorf("registration failed with status %d", status)
	}

	return registered, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return 0, fmt.Errorf("failed to decode auth service response: %w", err)
		}
	} else {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	return resp.StatusCode, nil
}
