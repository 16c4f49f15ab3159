package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wishkeep/wishkeep/internal/assistant"
	"github.com/wishkeep/wishkeep/internal/stream"
)

// Client talks to the wishkeep server's streaming endpoint.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a Client for the given server. The HTTP client carries no
// overall timeout; streams are bounded by the caller's context.
func NewClient(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("server URL is required")
	}
	if token == "" {
		return nil, errors.New("API token is required")
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{},
	}, nil
}

// apiError is the server's JSON error envelope.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Stream posts the conversation history and invokes fn for every decoded
// frame until the stream ends. Returning an error from fn stops decoding.
func (c *Client) Stream(ctx context.Context, history []assistant.Message, fn func(stream.Frame) error) error {
	body, err := json.Marshal(map[string]any{"messages": history})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/assistant/stream", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("contacting server: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&apiErr); err == nil &&
			apiErr.Error.Message != "" {
			return fmt.Errorf("server rejected request: %s", apiErr.Error.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}

	dec := stream.NewDecoder(resp.Body)
	for {
		frame, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading stream: %w", err)
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
}
