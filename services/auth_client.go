// services/auth_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// AuthClient forwards login/register calls to the remote auth endpoints. The
// relay performs no token mechanics of its own; it only relays the store's
// {success, user} answers and remembers the last authenticated user.
type AuthClient struct {
	BaseURL string
	Client  *http.Client
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthUser is the user object the auth service returns.
type AuthUser struct {
	ID           string `json:"_id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber,omitempty"`
}

// AuthResult is the auth service's envelope.
type AuthResult struct {
	Success bool      `json:"success"`
	User    *AuthUser `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	Password     string `json:"password"`
}

func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	return c.post(ctx, "/api/auth/login", req)
}

func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return c.post(ctx, "/api/auth/register", req)
}

func (c *AuthClient) post(ctx context.Context, path string, payload interface{}) (*AuthResult, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s%s", c.BaseURL, path)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnreachable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	// The auth service answers 401-style failures with its own {success:
	// false} envelope, so any decodable body is passed through.
	var out AuthResult
	if err := json.Unmarshal(body, &out); err != nil {
		log.Printf("AuthService %s returned %d: %s", path, resp.StatusCode, string(body))
		return nil, fmt.Errorf("auth service returned %d", resp.StatusCode)
	}
	return &out, nil
}
