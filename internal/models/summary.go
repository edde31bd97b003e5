package models

// NormalizedSummary is the fixed shape returned to callers for every model reply.
type NormalizedSummary struct {
	InitialBulletSummary  []string `json:"initial_bullet_summary" yaml:"initial_bullet_summary"`
	UserCustomizedSummary string   `json:"user_customized_summary" yaml:"user_customized_summary"`
	ClarificationsOrNotes []string `json:"clarifications_or_notes" yaml:"clarifications_or_notes"`
}

// StartSessionRequest is the body of POST /api/start-session.
type StartSessionRequest struct {
	Transcript      string `json:"transcript"`
	UserInstruction string `json:"userInstruction,omitempty"`
}

// StartSessionResponse carries the new session id and the first summary.
type StartSessionResponse struct {
	SessionID string            `json:"sessionId"`
	Summary   NormalizedSummary `json:"summary"`
}

// SummarizeRequest is the body of POST /api/summarize.
type SummarizeRequest struct {
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt"`
}

type SummarizeResponse struct {
	Summary NormalizedSummary `json:"summary"`
}

// SessionsResponse lists live sessions.
type SessionsResponse struct {
	ActiveSessions int      `json:"active_sessions"`
	SessionIDs     []string `json:"session_ids"`
}

// CleanupResponse reports the effect of a sweep.
type CleanupResponse struct {
	Message        string `json:"message"`
	SessionsBefore int    `json:"sessions_before"`
	SessionsAfter  int    `json:"sessions_after"`
	Cleaned        int    `json:"cleaned"`
}
