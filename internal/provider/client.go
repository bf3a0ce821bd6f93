// Package provider is a minimal client for the conversational-AI
// provider's REST API. It exists for the manual resync path: staff can
// re-fetch a conversation's analysis and run it back through the intake
// pipeline when a webhook delivery was lost or mis-processed.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the provider's public API origin.
const DefaultBaseURL = "https://api.elevenlabs.io"

// Client calls the provider API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a provider client. An empty baseURL uses the default.
func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetConversation fetches the raw analysis document for a conversation.
// The result is the provider's conversation body in the same shape as the
// `data` object of a post_call_transcription webhook, returned as raw JSON
// so the webhook parser can be reused on it.
func (c *Client) GetConversation(ctx context.Context, conversationID string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("provider: API key not configured")
	}
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("provider: conversation id required")
	}

	endpoint := fmt.Sprintf("%s/v1/convai/conversations/%s",
		c.baseURL, url.PathEscape(conversationID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("provider: build request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider: fetch conversation: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("provider: read response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("provider: conversation %s not found", conversationID)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("provider: API error: status=%d body=%s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.RawMessage(body), nil
}
