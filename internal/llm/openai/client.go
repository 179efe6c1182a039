package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"cv-polisher/internal/llm"
)

const (
	providerName    = "openai"
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 4 << 20
)

// Options configures a chat completions client.
type Options struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
	// Base is the underlying transport; nil means http.DefaultTransport.
	Base http.RoundTripper
}

// Client implements llm.Client against an OpenAI-compatible chat completions endpoint.
type Client struct {
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a client. The API key is attached as a bearer token by an oauth2 transport.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required")
	}
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, fmt.Errorf("AI_API_URL is required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(opts.APIKey), TokenType: "Bearer"})
	return &Client{
		model:    strings.TrimSpace(opts.Model),
		endpoint: strings.TrimSpace(opts.Endpoint),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &oauth2.Transport{Source: src, Base: base},
		},
	}, nil
}

// Provider implements llm.Named.
func (c *Client) Provider() string { return providerName }

// Complete sends one chat completion request and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", &llm.CompletionError{Kind: llm.KindConfig, Provider: providerName, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &llm.CompletionError{Kind: llm.KindConfig, Provider: providerName, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", llm.TransportError(providerName, err)
	}

	if resp.StatusCode >= 400 {
		return "", &llm.CompletionError{
			Kind:       llm.KindStatus,
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	if err := validateShape(body); err != nil {
		return "", &llm.CompletionError{Kind: llm.KindShape, Provider: providerName, StatusCode: resp.StatusCode, Err: err}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &llm.CompletionError{Kind: llm.KindShape, Provider: providerName, Err: err}
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", &llm.CompletionError{Kind: llm.KindShape, Provider: providerName, Message: "empty content"}
	}
	return content, nil
}

func errorMessage(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil && parsed.Error.Message != "" {
		if parsed.Error.Type != "" {
			return parsed.Error.Message + " (" + parsed.Error.Type + ")"
		}
		return parsed.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return msg
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
