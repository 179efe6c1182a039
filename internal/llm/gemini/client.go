package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"cv-polisher/internal/llm"
)

const (
	providerName = "gemini"
	// DefaultModel is used when no Gemini model name is configured.
	DefaultModel = "gemini-1.5-flash"
)

// Client implements llm.Client on Google Gemini.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client authenticated with an API key.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("AI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client, model: strings.TrimSpace(model)}, nil
}

// Provider implements llm.Named.
func (c *Client) Provider() string { return providerName }

// Complete generates a single response for prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify(err)
	}
	text, err := extractText(resp)
	if err != nil {
		return "", &llm.CompletionError{Kind: llm.KindShape, Provider: providerName, Err: err}
	}
	return text, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func classify(err error) *llm.CompletionError {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &llm.CompletionError{Kind: llm.KindStatus, Provider: providerName, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return &llm.CompletionError{Kind: llm.KindShape, Provider: providerName, Err: err}
	}
	return llm.TransportError(providerName, err)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	out := strings.TrimSpace(strings.Join(parts, ""))
	if out == "" {
		return "", errors.New("no text parts in response")
	}
	return out, nil
}
