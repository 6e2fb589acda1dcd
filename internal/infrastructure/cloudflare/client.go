// Package cloudflare talks to the Cloudflare v4 REST API: Workers KV for the
// record store and SSL for SaaS custom hostnames for partner subdomains.
package cloudflare

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api.cloudflare.com/client/v4"
	providerName   = "cloudflare"
)

// Config holds the API credentials and resource identifiers.
type Config struct {
	BaseURL     string
	APIToken    string
	AccountID   string
	ZoneID      string
	NamespaceID string
	Timeout     time.Duration
}

// NewClient returns a resty client authenticated with the API token. Requests
// are never retried.
func NewClient(cfg Config) *resty.Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(cfg.APIToken).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return client
}

// envelope is the standard v4 response wrapper.
type envelope struct {
	Success  bool            `json:"success"`
	Errors   []apiMessage    `json:"errors"`
	Result   json.RawMessage `json:"result"`
	Info     *resultInfo     `json:"result_info,omitempty"`
	Messages []apiMessage    `json:"messages"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type resultInfo struct {
	Count  int    `json:"count"`
	Cursor string `json:"cursor"`
}

// transportError wraps a failure that produced no response.
func transportError(op string, err error) error {
	return &domain.UpstreamError{Provider: providerName, Err: fmt.Errorf("%s: %w", op, err)}
}

// responseError surfaces a non-2xx response with the body as details.
func responseError(resp *resty.Response) error {
	return &domain.UpstreamError{
		Provider:   providerName,
		StatusCode: resp.StatusCode(),
		Details:    strings.TrimSpace(resp.String()),
	}
}

// decodeEnvelope parses a JSON API response, treating success=false like a
// non-2xx status.
func decodeEnvelope(resp *resty.Response) (*envelope, error) {
	if resp.IsError() {
		return nil, responseError(resp)
	}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &domain.UpstreamError{Provider: providerName, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if !env.Success {
		return nil, responseError(resp)
	}
	return &env, nil
}
