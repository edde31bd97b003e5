package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/config"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
)

func testConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Type:    "gemini",
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "gemini-1.5-flash",
	}
}

func TestComplete_SendsSystemInstructionAndHistory(t *testing.T) {
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []geminiCandidate{{
				Content:      geminiContent{Role: "model", Parts: []geminiPart{{Text: "Hel"}, {Text: "lo"}}},
				FinishReason: "STOP",
			}},
			UsageMetadata: &geminiUsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 2, TotalTokenCount: 9},
		})
	}))
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	temp := float32(0.2)
	resp, err := p.Complete(context.Background(), providers.CompletionRequest{
		SystemInstruction: "be brief",
		Messages: []providers.Message{
			{Role: providers.RoleUser, Content: "first"},
			{Role: providers.RoleAssistant, Content: "reply"},
			{Role: providers.RoleUser, Content: "second"},
		},
		Temperature: &temp,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, 9, resp.Usage.TotalTokens)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "be brief", got.SystemInstruction.JoinText())
	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "model", got.Contents[1].Role)
	assert.Equal(t, "second", got.Contents[2].JoinText())
	require.NotNil(t, got.GenerationConfig)
	assert.InDelta(t, 0.2, *got.GenerationConfig.Temperature, 0.0001)
}

func TestComplete_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	_, err := p.Complete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestComplete_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	_, err := p.Complete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestComplete_EmptyTextIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[]},"finishReason":"STOP"}]}`))
	}))
	defer server.Close()

	p := NewProvider(testConfig(server.URL))
	resp, err := p.Complete(context.Background(), providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "", resp.Content)
	assert.Equal(t, "STOP", resp.FinishReason)
}

func TestValidateConfig(t *testing.T) {
	cfg := testConfig("")
	cfg.APIKey = ""
	p := NewProvider(cfg)

	assert.Error(t, p.ValidateConfig())
	_, err := p.Complete(context.Background(), providers.CompletionRequest{})
	assert.Error(t, err)
	assert.Equal(t, "Gemini", p.Name())
}
