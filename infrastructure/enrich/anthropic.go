package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rios0rios0/upgradenotes/domain"
)

const (
	anthropicName       = "anthropic"
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicModel      = "claude-3-5-haiku-latest"
	anthropicVersion    = "2023-06-01"
	anthropicMaxTokens  = 2048
)

// Anthropic is the Anthropic-backed enrichment provider.
type Anthropic struct {
	apiKey string
	url    string
	client *retryablehttp.Client
}

// NewAnthropic creates the provider. An empty key makes it unavailable.
func NewAnthropic(apiKey string, timeout time.Duration) *Anthropic {
	return &Anthropic{
		apiKey: apiKey,
		url:    defaultAnthropicURL,
		client: newHTTPClient(timeout),
	}
}

func (p *Anthropic) Name() string    { return anthropicName }
func (p *Anthropic) Available() bool { return p.apiKey != "" }

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Enrich sends the categorized findings to the messages endpoint and
// returns the model's summary.
func (p *Anthropic) Enrich(
	ctx context.Context,
	candidates []*domain.PackageCandidate,
	opts domain.EnrichmentOptions,
) (*domain.EnrichmentResult, error) {
	payload, err := json.Marshal(anthropicRequest{
		Model:     anthropicModel,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: BuildPrompt(candidates, opts.FocusAreas)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	body, err := postJSON(ctx, p.client, p.url, payload, map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return nil, err
	}

	var parsed anthropicResponse
	if unmarshalErr := json.Unmarshal(body, &parsed); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid response: %w", unmarshalErr)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("api error: %s", parsed.Error.Message)
	}
	if len(parsed.Content) == 0 {
		return nil, errors.New("response contained no content")
	}

	return &domain.EnrichmentResult{
		Provider: anthropicName,
		Findings: parsed.Content[0].Text,
	}, nil
}
