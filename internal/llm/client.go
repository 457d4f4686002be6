// Package llm is the chat-completions client for the external gateway.
// It assembles no prompts itself; callers bring the messages and read the
// completion text back verbatim.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config for the gateway client.
type Config struct {
	APIKey     string
	BaseURL    string // default https://api.openai.com/v1
	Model      string // e.g. "gpt-4o-mini"
	Timeout    time.Duration
	HTTPClient *http.Client // overrides Timeout when set, used by tests
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

// Message is one chat message. Content is either a plain string or a
// []ContentPart for vision requests.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

// Request carries one chat-completion call.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient, log: logger}
}

// TextContent builds a plain text message.
func TextContent(role, text string) Message {
	return Message{Role: role, Content: text}
}

// VisionContent builds a user message pairing an instruction with an
// inline base64 JPEG.
func VisionContent(text, imageBase64 string) Message {
	return Message{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: text},
			{Type: "image_url", ImageURL: &ImageURL{URL: "data:image/jpeg;base64," + imageBase64}},
		},
	}
}

// Complete sends one chat-completion request and returns the first
// choice's content. Exactly one request, no retries.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &UpstreamError{Message: "OpenAI API key not configured"}
	}

	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model":       c.cfg.Model,
		"messages":    req.Messages,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.InfoContext(ctx, "llm.request",
		"req_id", rid,
		"model", c.cfg.Model,
		"messages", len(req.Messages),
		"content_length", len(bs))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.log.ErrorContext(ctx, "llm.send_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", &UpstreamError{Message: err.Error()}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.WarnContext(ctx, "llm.body_close_error", "req_id", rid, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	c.log.InfoContext(ctx, "llm.response",
		"req_id", rid,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		return "", &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("OpenAI API error: %s", upstreamMessage(raw, resp.Status)),
		}
	}

	var envelope struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", &UpstreamError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	if len(envelope.Choices) == 0 {
		return "", &UpstreamError{Message: "no choices in response"}
	}
	return envelope.Choices[0].Message.Content, nil
}

// upstreamMessage prefers the error message from the gateway's JSON body
// over the bare HTTP status line.
func upstreamMessage(raw []byte, status string) string {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return status
}
