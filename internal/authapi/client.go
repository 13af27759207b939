// Package authapi talks to the remote Auth API that issues session tokens.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoint paths relative to the base URL
const (
	LoginPath  = "/api/auth/login"
	SignupPath = "/api/auth/signup"
)

// maxBodyBytes bounds how much of a response body is read
const maxBodyBytes = 1 << 20

// Client represents an HTTP client for the Auth API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. A zero timeout leaves requests bounded only
// by the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	return c.post(ctx, LoginPath, req)
}

// Signup registers a new account. A token in the response, if any, is
// returned but callers are not expected to use it.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	return c.post(ctx, SignupPath, req)
}

func (c *Client) post(ctx context.Context, path string, body any) (*AuthResult, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var envelope Envelope
	decodeErr := json.Unmarshal(raw, &envelope)
	if decodeErr != nil {
		decodeErr = fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RejectionError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Reason(),
			Err:        decodeErr,
		}
	}

	if decodeErr != nil {
		return nil, &RejectionError{StatusCode: resp.StatusCode, Err: decodeErr}
	}

	if !envelope.Succeeded() {
		return nil, &RejectionError{
			StatusCode: resp.StatusCode,
			Message:    envelope.Reason(),
		}
	}

	result := envelope.Normalize()
	return &result, nil
}
