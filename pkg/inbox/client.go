package inbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response from the server. Callers surface these as
// recoverable notices; they are never fatal.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsPermissionDenied reports whether err is a 403 from the API, i.e. an
// action attempted without holding the conversation.
func IsPermissionDenied(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// Client talks to the leadhub API with a seller bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	// streamClient has no timeout; the SSE connection is long-lived.
	streamClient *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		token:        token,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		streamClient: &http.Client{},
	}
}

// do issues a JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// GetLead fetches one lead.
func (c *Client) GetLead(ctx context.Context, leadID string) (*Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodGet, "/v1/leads/"+leadID, nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

// GetMessages fetches a lead's message history in chronological order.
func (c *Client) GetMessages(ctx context.Context, leadID string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/leads/"+leadID+"/messages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// GetLeadEvents fetches a lead's field-change history.
func (c *Client) GetLeadEvents(ctx context.Context, leadID string) ([]LeadEvent, error) {
	var resp struct {
		Events []LeadEvent `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/leads/"+leadID+"/events", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// GetSession fetches the lead's conversation session.
func (c *Client) GetSession(ctx context.Context, leadID string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "/v1/leads/"+leadID+"/session", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// TakeOver claims the lead's conversation for the calling seller.
func (c *Client) TakeOver(ctx context.Context, leadID string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/leads/"+leadID+"/take-over", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ReturnToAI hands the lead's conversation back to the assistant.
func (c *Client) ReturnToAI(ctx context.Context, leadID string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/leads/"+leadID+"/return-to-ai", nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SendMessage sends an outbound message. Only valid while the calling seller
// holds the conversation.
func (c *Client) SendMessage(ctx context.Context, leadID, content string) (*Message, error) {
	var msg Message
	body := map[string]string{"content": content}
	if err := c.do(ctx, http.MethodPost, "/v1/leads/"+leadID+"/messages", body, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// SetTyping broadcasts the calling seller's typing signal.
func (c *Client) SetTyping(ctx context.Context, leadID string, isTyping bool) error {
	body := map[string]bool{"is_typing": isTyping}
	return c.do(ctx, http.MethodPost, "/v1/leads/"+leadID+"/typing", body, nil)
}

// PatchLead applies a partial update to a lead. Nil fields are unchanged.
func (c *Client) PatchLead(ctx context.Context, leadID string, patch map[string]string) (*Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPatch, "/v1/leads/"+leadID, patch, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}
