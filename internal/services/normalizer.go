package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/SHETTYKSIDDHARTH/summarizer-backend/internal/models"
)

const (
	// FallbackBulletMessage is the only bullet of a summary built from unparseable output.
	FallbackBulletMessage = "Summary could not be parsed from the AI response. Please try again."
	// FallbackNoJSONNote explains a reply that contained no JSON object at all.
	FallbackNoJSONNote = "The AI response did not contain valid JSON; the raw response is shown above."
	// FallbackInvalidNote explains a reply whose JSON object was malformed or incomplete.
	FallbackInvalidNote = "The AI response could not be parsed as the expected JSON structure; a truncated copy of the raw response is shown above."

	// fallbackTextLimit is the rune length kept from raw text in the invalid-JSON fallback.
	fallbackTextLimit = 500
	ellipsis          = "..."
)

// ParseOutcome reports which path NormalizeSummary took.
type ParseOutcome string

const (
	OutcomeParsed  ParseOutcome = "parsed"
	OutcomeNoJSON  ParseOutcome = "no_json"
	OutcomeInvalid ParseOutcome = "invalid_json"
)

// NormalizeSummary coerces free model text into a NormalizedSummary. It never
// fails: text it cannot parse becomes a fallback summary.
func NormalizeSummary(raw string) models.NormalizedSummary {
	summary, _ := normalizeSummary(raw)
	return summary
}

func normalizeSummary(raw string) (models.NormalizedSummary, ParseOutcome) {
	cleaned := stripCodeFences(raw)

	candidate, ok := extractJSONObject(cleaned)
	if !ok {
		return models.NormalizedSummary{
			InitialBulletSummary:  []string{FallbackBulletMessage},
			UserCustomizedSummary: cleaned,
			ClarificationsOrNotes: []string{FallbackNoJSONNote},
		}, OutcomeNoJSON
	}

	summary, ok := decodeSummary(candidate)
	if !ok {
		return invalidFallback(cleaned), OutcomeInvalid
	}
	return summary, OutcomeParsed
}

// stripCodeFences removes every ```json and ``` marker, wherever it appears.
func stripCodeFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// extractJSONObject returns the text from the first '{' to the last '}'.
// Braces are not balanced: everything between the outermost pair is kept.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

func decodeSummary(candidate string) (models.NormalizedSummary, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &fields); err != nil {
		return models.NormalizedSummary{}, false
	}

	rawBullets, ok := fields["initial_bullet_summary"]
	if !ok || isNull(rawBullets) {
		return models.NormalizedSummary{}, false
	}
	var bullets []string
	if err := json.Unmarshal(rawBullets, &bullets); err != nil || len(bullets) == 0 {
		return models.NormalizedSummary{}, false
	}

	rawCustom, ok := fields["user_customized_summary"]
	if !ok || isNull(rawCustom) {
		return models.NormalizedSummary{}, false
	}
	var custom string
	if err := json.Unmarshal(rawCustom, &custom); err != nil {
		return models.NormalizedSummary{}, false
	}

	notes := []string{}
	if rawNotes, ok := fields["clarifications_or_notes"]; ok && !isNull(rawNotes) {
		var decoded []string
		if err := json.Unmarshal(rawNotes, &decoded); err == nil && decoded != nil {
			notes = decoded
		}
	}

	return models.NormalizedSummary{
		InitialBulletSummary:  bullets,
		UserCustomizedSummary: custom,
		ClarificationsOrNotes: notes,
	}, true
}

func invalidFallback(cleaned string) models.NormalizedSummary {
	return models.NormalizedSummary{
		InitialBulletSummary:  []string{FallbackBulletMessage},
		UserCustomizedSummary: truncateRunes(cleaned, fallbackTextLimit) + ellipsis,
		ClarificationsOrNotes: []string{FallbackInvalidNote},
	}
}

// truncateRunes keeps at most limit runes of text.
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
