package authsdk

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

// SDKClient is a client for the estoque authentication service. It
// provides access to unauthenticated operations and can create
// authenticated Sessions via the login endpoints.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Login authenticates with a username and password and returns an
// authenticated Session.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	var resp LoginResponse
	if err := c.postJSON(ctx, "/v1/auth/login", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// TokenLogin authenticates with a physical credential and returns an
// authenticated Session.
func (c *SDKClient) TokenLogin(ctx context.Context, req TokenLoginRequest) (*Session, error) {
	var resp LoginResponse
	if err := c.postJSON(ctx, "/v1/auth/token-login", req, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, resp), nil
}

// NewSessionFromToken wraps an existing session token (e.g., one stored
// by a previous login) in a Session.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Bootstrap creates the first administrator on an empty system. The
// bootstrap token must match the service configuration.
func (c *SDKClient) Bootstrap(ctx context.Context, bootstrapToken string, req BootstrapRequest) (BootstrapResponse, error) {
	var resp BootstrapResponse

	body, err := json.Marshal(req)
	if err != nil {
		return resp, fmt.Errorf("failed to encode request: %w", err)
	}

	httpResp, err := c.doRequest(ctx, http.MethodPost, "/v1/bootstrap", bytes.NewReader(body), map[string]string{
		"Content-Type":      "application/json",
		"X-Bootstrap-Token": bootstrapToken,
	})
	if err != nil {
		return resp, err
	}
	return resp, decodeJSON(httpResp, &resp, http.StatusCreated)
}

// Livez calls the liveness endpoint.
func (c *SDKClient) Livez(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// Readyz calls the readiness endpoint. A degraded service returns the
// parsed response together with an APIError carrying the 503 status.
func (c *SDKClient) Readyz(ctx context.Context) (HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (HealthResponse, error) {
	var resp HealthResponse

	httpResp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return resp, err
	}
	return resp, decodeJSON(httpResp, &resp, http.StatusOK)
}

func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an unauthenticated HTTP request.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

func (c *SDKClient) postJSON(ctx context.Context, path string, body, target any, expectedStatus int) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(encoded), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

// decodeJSON decodes a JSON response into target, returning a typed
// APIError when the status code does not match.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkStatusNoContent returns a typed error unless the response is
// 204 No Content.
func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, bodyBytes)
	}
	return nil
}
