package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/llm"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/models"
	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/providers"
)

// DefaultUpstreamTimeout bounds a single model round-trip.
const DefaultUpstreamTimeout = 60 * time.Second

// SummaryOptions tunes how the service talks to the model.
type SummaryOptions struct {
	Timeout     time.Duration
	Temperature *float32
	MaxTokens   int
}

// SummaryService runs the start-session, refine and cleanup flows.
type SummaryService struct {
	provider providers.Provider
	store    *SessionStore
	metrics  *llm.MetricsCollector
	logger   *logrus.Logger
	opts     SummaryOptions
	now      func() time.Time

	newConversation func() Conversation
}

// NewSummaryService wires a provider and a session store together.
func NewSummaryService(provider providers.Provider, store *SessionStore, metrics *llm.MetricsCollector, logger *logrus.Logger, opts SummaryOptions) *SummaryService {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultUpstreamTimeout
	}
	if metrics == nil {
		metrics = llm.NewMetricsCollector()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &SummaryService{
		provider: provider,
		store:    store,
		metrics:  metrics,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
	s.newConversation = func() Conversation {
		convOpts := []providers.ConversationOption{providers.WithMaxTokens(opts.MaxTokens)}
		if opts.Temperature != nil {
			convOpts = append(convOpts, providers.WithTemperature(*opts.Temperature))
		}
		return providers.NewConversation(provider, SystemInstruction, convOpts...)
	}
	return s
}

// StartSession summarizes a transcript in a new conversation and stores it.
func (s *SummaryService) StartSession(ctx context.Context, transcript, userInstruction string) (*models.StartSessionResponse, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, &ValidationError{Message: "Transcript is required"}
	}
	instruction := strings.TrimSpace(userInstruction)
	if instruction == "" {
		instruction = DefaultUserInstruction
	}

	s.logger.WithFields(logrus.Fields{
		"transcript_length":  len(transcript),
		"custom_instruction": userInstruction != "",
	}).Info("Starting summarization session")

	conv := s.newConversation()
	summary, err := s.send(ctx, "start-session", conv, BuildStartPrompt(transcript, instruction))
	if err != nil {
		return nil, fmt.Errorf("failed to generate summary: %w", err)
	}

	// Insert last so a failed call never leaves a session behind.
	sessionID := s.store.Create(conv)
	s.logger.WithField("session_id", sessionID).Info("Session created")

	return &models.StartSessionResponse{
		SessionID: sessionID,
		Summary:   summary,
	}, nil
}

// Refine sends a follow-up instruction on an existing session.
func (s *SummaryService) Refine(ctx context.Context, sessionID, prompt string) (*models.SummarizeResponse, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, &ValidationError{Message: "Session ID is required"}
	}
	conv, ok := s.store.Get(sessionID)
	if !ok {
		return nil, &ValidationError{Message: "Invalid or expired session ID", Err: ErrSessionNotFound}
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, &ValidationError{Message: "Prompt is required"}
	}

	s.logger.WithFields(logrus.Fields{
		"session_id":    sessionID,
		"prompt_length": len(prompt),
	}).Info("Refining summary")

	summary, err := s.send(ctx, "summarize", conv, BuildRefinePrompt(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to refine summary: %w", err)
	}

	return &models.SummarizeResponse{Summary: summary}, nil
}

// Cleanup sweeps expired sessions and reports the counts around the sweep.
func (s *SummaryService) Cleanup() models.CleanupResponse {
	before := s.store.Count()
	cleaned := s.store.Sweep(s.now())
	after := s.store.Count()

	s.logger.WithFields(logrus.Fields{
		"sessions_before": before,
		"sessions_after":  after,
		"cleaned":         cleaned,
	}).Info("Manual session cleanup")

	return models.CleanupResponse{
		Message:        "Session cleanup completed",
		SessionsBefore: before,
		SessionsAfter:  after,
		Cleaned:        cleaned,
	}
}

// Sessions lists the live sessions.
func (s *SummaryService) Sessions() models.SessionsResponse {
	return models.SessionsResponse{
		ActiveSessions: s.store.Count(),
		SessionIDs:     s.store.IDs(),
	}
}

// TestProvider sends a fixed prompt outside any session and returns the raw reply.
func (s *SummaryService) TestProvider(ctx context.Context) (string, error) {
	if err := s.provider.ValidateConfig(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderNotConfigured, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := s.provider.Complete(callCtx, providers.CompletionRequest{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: TestPrompt}},
		Model:    s.provider.Model(),
	})
	err = s.classify(callCtx, err)
	s.record("test", err, time.Since(start), resp)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Configured reports whether the provider has what it needs to make calls.
func (s *SummaryService) Configured() bool {
	return s.provider.ValidateConfig() == nil
}

// ProviderName returns the upstream provider's display name.
func (s *SummaryService) ProviderName() string {
	return s.provider.Name()
}

// Metrics returns a snapshot of upstream call metrics.
func (s *SummaryService) Metrics() map[string]interface{} {
	return s.metrics.GetSnapshot()
}

func (s *SummaryService) send(ctx context.Context, operation string, conv Conversation, prompt string) (models.NormalizedSummary, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := conv.Send(callCtx, prompt)
	err = s.classify(callCtx, err)
	s.record(operation, err, time.Since(start), resp)
	if err != nil {
		return models.NormalizedSummary{}, err
	}

	summary, outcome := normalizeSummary(resp.Content)
	entry := s.logger.WithFields(logrus.Fields{
		"operation": operation,
		"outcome":   outcome,
	})
	if outcome != OutcomeParsed {
		s.metrics.RecordFallback(string(outcome))
		entry.Warn("Model reply was not valid summary JSON; returning fallback summary")
	}
	if s.logger.IsLevelEnabled(logrus.DebugLevel) {
		entry.WithFields(logrus.Fields{
			"raw":     resp.Content,
			"cleaned": stripCodeFences(resp.Content),
		}).Debug("Model reply")
	}
	return summary, nil
}

// classify turns a deadline hit into ErrUpstreamTimeout.
func (s *SummaryService) classify(callCtx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %v", ErrUpstreamTimeout, s.opts.Timeout, err)
	}
	return err
}

func (s *SummaryService) record(operation string, err error, latency time.Duration, resp *providers.CompletionResponse) {
	name := s.provider.Name()
	s.metrics.RecordRequest(name, operation, err, errors.Is(err, ErrUpstreamTimeout), latency)
	if resp != nil {
		s.metrics.RecordTokens(name, resp.Usage.TotalTokens)
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"operation": operation,
			"latency":   latency,
		}).WithError(err).Error("Upstream model call failed")
	}
}
