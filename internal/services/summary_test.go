package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/llm"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
)

const validReply = "```json\n" + `{"initial_bullet_summary":["Budget approved","Launch in May"],"user_customized_summary":"Short summary","clarifications_or_notes":["Owner of QA unclear"]}` + "\n```"

// scriptedProvider replays canned replies and records every request.
type scriptedProvider struct {
	mu       sync.Mutex
	replies  []string
	err      error
	block    bool
	noKey    bool
	requests []providers.CompletionRequest
}

func (p *scriptedProvider) Name() string  { return "scripted" }
func (p *scriptedProvider) Model() string { return "scripted-model" }

func (p *scriptedProvider) ValidateConfig() error {
	if p.noKey {
		return errors.New("API key is required")
	}
	return nil
}

func (p *scriptedProvider) Complete(ctx context.Context, req providers.CompletionRequest) (*providers.CompletionResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	block, err := p.block, p.err
	p.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	reply := validReply
	if len(p.replies) > 0 {
		reply = p.replies[0]
		p.replies = p.replies[1:]
	}
	return &providers.CompletionResponse{Content: reply, Usage: providers.Usage{TotalTokens: 10}}, nil
}

func (p *scriptedProvider) lastRequest() providers.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

func newTestService(p *scriptedProvider) (*SummaryService, *SessionStore) {
	store := NewSessionStore(time.Hour)
	svc := NewSummaryService(p, store, llm.NewMetricsCollector(), quietLogger(), SummaryOptions{Timeout: time.Second})
	return svc, store
}

func TestStartSession_Success(t *testing.T) {
	p := &scriptedProvider{}
	svc, store := newTestService(p)

	resp, err := svc.StartSession(context.Background(), "Alice: we approve the budget.", "Use bullet points")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, []string{"Budget approved", "Launch in May"}, resp.Summary.InitialBulletSummary)
	assert.Equal(t, 1, store.Count())

	req := p.lastRequest()
	assert.Equal(t, SystemInstruction, req.SystemInstruction)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "Alice: we approve the budget.")
	assert.Contains(t, req.Messages[0].Content, "Use bullet points")
}

func TestStartSession_DefaultInstruction(t *testing.T) {
	p := &scriptedProvider{}
	svc, _ := newTestService(p)

	_, err := svc.StartSession(context.Background(), "transcript", "   ")
	require.NoError(t, err)

	assert.Contains(t, p.lastRequest().Messages[0].Content, DefaultUserInstruction)
}

func TestStartSession_BlankTranscript(t *testing.T) {
	p := &scriptedProvider{}
	svc, store := newTestService(p)

	for _, transcript := range []string{"", "  \n\t "} {
		_, err := svc.StartSession(context.Background(), transcript, "")
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		assert.Equal(t, "Transcript is required", err.Error())
	}

	assert.Equal(t, 0, store.Count())
	assert.Empty(t, p.requests)
}

func TestStartSession_UpstreamFailureLeavesNoSession(t *testing.T) {
	p := &scriptedProvider{err: errors.New("quota exceeded")}
	svc, store := newTestService(p)

	_, err := svc.StartSession(context.Background(), "transcript", "")
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 0, store.Count())
}

func TestStartSession_Timeout(t *testing.T) {
	p := &scriptedProvider{block: true}
	store := NewSessionStore(time.Hour)
	svc := NewSummaryService(p, store, nil, quietLogger(), SummaryOptions{Timeout: 20 * time.Millisecond})

	_, err := svc.StartSession(context.Background(), "transcript", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamTimeout)
	assert.Equal(t, 0, store.Count())

	timeouts := svc.Metrics()["timeouts"].(map[string]int64)
	assert.Equal(t, int64(1), timeouts["scripted:start-session"])
}

func TestStartSession_UnparseableReplyStillSucceeds(t *testing.T) {
	p := &scriptedProvider{replies: []string{"I cannot produce JSON today."}}
	svc, store := newTestService(p)

	resp, err := svc.StartSession(context.Background(), "transcript", "")
	require.NoError(t, err)

	assert.Equal(t, []string{FallbackBulletMessage}, resp.Summary.InitialBulletSummary)
	assert.Equal(t, "I cannot produce JSON today.", resp.Summary.UserCustomizedSummary)
	assert.Equal(t, 1, store.Count())

	fallbacks := svc.Metrics()["parse_fallback"].(map[string]int64)
	assert.Equal(t, int64(1), fallbacks[string(OutcomeNoJSON)])
}

func TestStartSession_EmptyReplyBecomesFallback(t *testing.T) {
	p := &scriptedProvider{replies: []string{"", ""}}
	svc, store := newTestService(p)

	resp, err := svc.StartSession(context.Background(), "transcript", "")
	require.NoError(t, err)

	assert.Equal(t, []string{FallbackBulletMessage}, resp.Summary.InitialBulletSummary)
	assert.Equal(t, "", resp.Summary.UserCustomizedSummary)
	assert.Equal(t, []string{FallbackNoJSONNote}, resp.Summary.ClarificationsOrNotes)
	assert.Equal(t, 1, store.Count())

	refined, err := svc.Refine(context.Background(), resp.SessionID, "try again")
	require.NoError(t, err)
	assert.Equal(t, []string{FallbackBulletMessage}, refined.Summary.InitialBulletSummary)
}

func TestRefine_ContinuesConversation(t *testing.T) {
	p := &scriptedProvider{}
	svc, _ := newTestService(p)

	started, err := svc.StartSession(context.Background(), "transcript", "")
	require.NoError(t, err)

	resp, err := svc.Refine(context.Background(), started.SessionID, "Make it shorter")
	require.NoError(t, err)
	assert.Equal(t, "Short summary", resp.Summary.UserCustomizedSummary)

	req := p.lastRequest()
	require.Len(t, req.Messages, 3)
	assert.Equal(t, providers.RoleAssistant, req.Messages[1].Role)
	assert.Equal(t, "Make it shorter"+RefineInstructionSuffix, req.Messages[2].Content)
}

func TestRefine_Validation(t *testing.T) {
	p := &scriptedProvider{}
	svc, _ := newTestService(p)
	started, err := svc.StartSession(context.Background(), "transcript", "")
	require.NoError(t, err)
	calls := len(p.requests)

	tests := []struct {
		name      string
		sessionID string
		prompt    string
		message   string
	}{
		{name: "Missing session", sessionID: "", prompt: "x", message: "Session ID is required"},
		{name: "Unknown session", sessionID: "12345", prompt: "x", message: "Invalid or expired session ID"},
		{name: "Blank prompt", sessionID: started.SessionID, prompt: "  ", message: "Prompt is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Refine(context.Background(), tt.sessionID, tt.prompt)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}

	_, err = svc.Refine(context.Background(), "12345", "x")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, calls, len(p.requests))
}

func TestRefine_ExpiredSession(t *testing.T) {
	clock := newClock()
	store := NewSessionStore(time.Hour, WithClock(clock.Now))
	svc := NewSummaryService(&scriptedProvider{}, store, nil, quietLogger(), SummaryOptions{})
	svc.now = clock.Now

	started, err := svc.StartSession(context.Background(), "transcript", "")
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	cleanup := svc.Cleanup()
	assert.Equal(t, 1, cleanup.SessionsBefore)
	assert.Equal(t, 0, cleanup.SessionsAfter)
	assert.Equal(t, 1, cleanup.Cleaned)

	_, err = svc.Refine(context.Background(), started.SessionID, "more detail")
	assert.True(t, IsValidationError(err))
}

func TestSessions(t *testing.T) {
	svc, _ := newTestService(&scriptedProvider{})

	a, err := svc.StartSession(context.Background(), "one", "")
	require.NoError(t, err)
	b, err := svc.StartSession(context.Background(), "two", "")
	require.NoError(t, err)

	sessions := svc.Sessions()
	assert.Equal(t, 2, sessions.ActiveSessions)
	assert.Equal(t, []string{a.SessionID, b.SessionID}, sessions.SessionIDs)
}

func TestTestProvider(t *testing.T) {
	p := &scriptedProvider{replies: []string{"Hello there!"}}
	svc, _ := newTestService(p)

	text, err := svc.TestProvider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", text)
	assert.Equal(t, TestPrompt, p.lastRequest().Messages[0].Content)
	assert.True(t, svc.Configured())
}

func TestTestProvider_NotConfigured(t *testing.T) {
	p := &scriptedProvider{noKey: true}
	svc, _ := newTestService(p)

	_, err := svc.TestProvider(context.Background())
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
	assert.False(t, svc.Configured())
	assert.Empty(t, p.requests)
}

func TestBuildStartPrompt(t *testing.T) {
	prompt := BuildStartPrompt("Bob: ship it", "one line")

	assert.True(t, strings.Contains(prompt, "Bob: ship it"))
	assert.True(t, strings.Contains(prompt, "User instruction: one line"))
}
