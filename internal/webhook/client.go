package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	ActionGenerateInsights = "generate_insights"
	ActionGenerateProposal = "generate_proposal"
)

// Company is the intake form forwarded to the automation for insight
// generation.
type Company struct {
	Name           string `json:"name"`
	Website        string `json:"website"`
	Focus          string `json:"focus"`
	Differentiator string `json:"differentiator"`
}

// Caller identifies the requesting user to the automation.
type Caller struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Client talks to a user-configured automation webhook. Responses are
// loosely shaped; everything that comes back goes through the resolver.
type Client struct {
	http *http.Client
}

// NewClient builds a webhook client with the given request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// GenerateInsights posts the company context to the webhook and resolves the
// reply into an insight bundle and normalized bids.
func (c *Client) GenerateInsights(ctx context.Context, url string, company Company, caller Caller) (Result, error) {
	payload := map[string]any{
		"action":  ActionGenerateInsights,
		"company": company,
		"user":    caller,
	}
	body, err := c.post(ctx, url, payload)
	if err != nil {
		return Result{}, err
	}
	return ResolveBytes(body)
}

// GenerateProposal posts one normalized bid to the webhook and extracts the
// proposal text from the reply. The alias chain mirrors what upstream
// workflows actually send back; an empty result means the automation
// returned no content, which the caller reports rather than persists.
func (c *Client) GenerateProposal(ctx context.Context, url string, bid NormalizedBid, caller Caller) (string, error) {
	payload := map[string]any{
		"action": ActionGenerateProposal,
		"bid":    bid,
		"user":   caller,
	}
	body, err := c.post(ctx, url, payload)
	if err != nil {
		return "", err
	}

	decoded, err := Decode(body)
	if err != nil {
		return "", fmt.Errorf("invalid JSON from proposal agent: %w", err)
	}
	root := unwrap(decoded)
	proposal := ""
	if v, ok := firstValue(root, "proposal", "proposal_output", "generated_proposal", "content"); ok {
		proposal = stringify(v)
	}
	return CleanProposal(proposal), nil
}

func (c *Client) post(ctx context.Context, url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}
	return body, nil
}
