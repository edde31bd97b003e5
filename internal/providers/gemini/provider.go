package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
)

// DefaultBaseURL is the public Generative Language API root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Provider talks to the Gemini generateContent REST endpoint.
type Provider struct {
	config     config.ProviderConfig
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client, mostly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) { p.httpClient = client }
}

// NewProvider creates a Gemini provider. A missing API key is not an error
// here so the service can start and report itself as unconfigured.
func NewProvider(cfg config.ProviderConfig, opts ...Option) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{
		config:     cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name
func (p *Provider) Name() string {
	if p.config.Name != "" {
		return p.config.Name
	}
	return "Gemini"
}

// Model returns the configured default model
func (p *Provider) Model() string {
	return p.config.Model
}

// ValidateConfig validates the provider configuration
func (p *Provider) ValidateConfig() error {
	if !p.config.Configured() {
		return errors.New("gemini API key is required")
	}
	if p.config.Model == "" {
		return errors.New("gemini model is required")
	}
	return nil
}

// Complete performs a single generateContent call
func (p *Provider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := p.ValidateConfig(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	body, err := p.doRequest(ctx, model, buildRequest(req))
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var resp geminiResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	text := resp.JoinText()
	if text == "" && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("gemini: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}

	// Empty text without a block reason is passed through.
	out := &providers.CompletionResponse{
		Model:   model,
		Content: text,
	}
	if len(resp.Candidates) > 0 {
		out.FinishReason = resp.Candidates[0].FinishReason
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = providers.Usage{
			PromptTokens:     u.PromptTokenCount,
			CompletionTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return out, nil
}

func (p *Provider) doRequest(ctx context.Context, model string, payload *geminiRequest) (io.ReadCloser, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return nil, err
	}

	fullURL := p.baseURL + "/models/" + url.PathEscape(model) + ":generateContent"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var envelope geminiErrorEnvelope
		if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
			return nil, fmt.Errorf("gemini: %s: %s", resp.Status, envelope.Error.Message)
		}
		return nil, fmt.Errorf("gemini: %s: %s", resp.Status, data)
	}
	return resp.Body, nil
}

func buildRequest(req providers.CompletionRequest) *geminiRequest {
	payload := &geminiRequest{
		Contents: make([]geminiContent, 0, len(req.Messages)),
	}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{
			Parts: []geminiPart{{Text: req.SystemInstruction}},
		}
	}
	for _, msg := range req.Messages {
		payload.Contents = append(payload.Contents, geminiContent{
			Role:  roleFor(msg.Role),
			Parts: []geminiPart{{Text: msg.Content}},
		})
	}
	if req.Temperature != nil || req.MaxTokens != nil {
		gc := &geminiGenerationConfig{Temperature: req.Temperature}
		if req.MaxTokens != nil {
			gc.MaxOutputTokens = *req.MaxTokens
		}
		payload.GenerationConfig = gc
	}
	return payload
}

func roleFor(role string) string {
	if role == providers.RoleAssistant {
		return "model"
	}
	return "user"
}
