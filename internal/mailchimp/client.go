package mailchimp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPDoer is the subset of *http.Client the client needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the MailChimp Marketing API v3 client. Every call is a single
// attempt; failures are returned to the caller as is.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPDoer
}

// NewClient creates a new MailChimp API client
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, errors.New("mailchimp api key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		dc, err := dataCenter(config.APIKey)
		if err != nil {
			return nil, err
		}
		baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0/", dc)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// dataCenter returns the suffix after the last "-" of an API key
// ("abc123-us6" -> "us6").
func dataCenter(apiKey string) (string, error) {
	i := strings.LastIndex(apiKey, "-")
	if i < 0 || i == len(apiKey)-1 {
		return "", fmt.Errorf("mailchimp api key has no data center suffix")
	}
	return apiKey[i+1:], nil
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client HTTPDoer) {
	c.httpClient = client
}

// BaseURL returns the resolved API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET on path, relative to the API root.
func (c *Client) Get(ctx context.Context, path string, body any) (Response, error) {
	return c.doRequest(ctx, http.MethodGet, path, body)
}

// Post performs a POST on path.
func (c *Client) Post(ctx context.Context, path string, body any) (Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, body)
}

// Patch performs a PATCH on path.
func (c *Client) Patch(ctx context.Context, path string, body any) (Response, error) {
	return c.doRequest(ctx, http.MethodPatch, path, body)
}

// Delete performs a DELETE on path.
func (c *Client) Delete(ctx context.Context, path string, body any) (Response, error) {
	return c.doRequest(ctx, http.MethodDelete, path, body)
}

// Ping checks credentials and reachability via the API health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "ping", nil)
	return err
}

// doRequest performs an authenticated request to the MailChimp API
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	reqURL := c.baseURL + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailchimp %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, respBody)
	}

	out := Response{}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

func decodeAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr.Detail = strings.TrimSpace(string(body))
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	return apiErr
}
