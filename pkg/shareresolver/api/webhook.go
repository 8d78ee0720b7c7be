package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// WebhookMessenger pushes channel calls to an application callback URL
type WebhookMessenger struct {
	callbackURL string
	client      *http.Client
}

// MethodCallPayload is the JSON body posted to the callback URL
type MethodCallPayload struct {
	Method    string      `json:"method"`
	Arguments interface{} `json:"arguments"`
}

// NewWebhookMessenger creates a messenger posting to callbackURL. A nil client
// uses one with a 10 second timeout.
func NewWebhookMessenger(callbackURL string, client *http.Client) (*WebhookMessenger, error) {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return nil, fmt.Errorf("invalid callback URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("callback URL must be an absolute http(s) URL: %q", callbackURL)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &WebhookMessenger{
		callbackURL: callbackURL,
		client:      client,
	}, nil
}

// CallbackURL returns the URL pushes are sent to
func (m *WebhookMessenger) CallbackURL() string {
	return m.callbackURL
}

// Attached reports true; a webhook messenger exists only while attached
func (m *WebhookMessenger) Attached() bool {
	return m.callbackURL != ""
}

// InvokeMethod posts the call and treats any non-2xx response as a failure
func (m *WebhookMessenger) InvokeMethod(ctx context.Context, method string, arguments interface{}) error {
	body, err := json.Marshal(MethodCallPayload{Method: method, Arguments: arguments})
	if err != nil {
		return fmt.Errorf("failed to encode method call: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", method, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push %s rejected with status %d", method, resp.StatusCode)
	}
	return nil
}
