package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rios0rios0/upgradenotes/domain"
)

const (
	openAIName       = "openai"
	defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"
	openAIModel      = "gpt-4o-mini"
)

// OpenAI is the OpenAI-backed enrichment provider.
type OpenAI struct {
	apiKey string
	url    string
	client *retryablehttp.Client
}

// NewOpenAI creates the provider. An empty key makes it unavailable.
func NewOpenAI(apiKey string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		apiKey: apiKey,
		url:    defaultOpenAIURL,
		client: newHTTPClient(timeout),
	}
}

func (p *OpenAI) Name() string    { return openAIName }
func (p *OpenAI) Available() bool { return p.apiKey != "" }

type openAIRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Enrich sends the categorized findings to the chat-completions endpoint
// and returns the model's summary.
func (p *OpenAI) Enrich(
	ctx context.Context,
	candidates []*domain.PackageCandidate,
	opts domain.EnrichmentOptions,
) (*domain.EnrichmentResult, error) {
	payload, err := json.Marshal(openAIRequest{
		Model: openAIModel,
		Messages: []openAIMessage{
			{Role: "user", Content: BuildPrompt(candidates, opts.FocusAreas)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := postJSON(ctx, p.client, p.url, payload, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return nil, err
	}

	var parsed openAIResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid response: %w", unmarshalErr)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("response contained no choices")
	}

	return &domain.EnrichmentResult{
		Provider: openAIName,
		Findings: parsed.Choices[0].Message.Content,
	}, nil
}

func newHTTPClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.Logger = nil
	client.HTTPClient.Timeout = timeout
	return client
}

// postJSON performs one JSON POST and returns the raw body. Non-2xx
// statuses (quota and billing errors included) come back as errors with
// the response body attached.
func postJSON(
	ctx context.Context,
	client *retryablehttp.Client,
	url string,
	payload []byte,
	headers map[string]string,
) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read response: %w", readErr)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
