package services

import "fmt"

// SystemInstruction seeds every conversation. Keep it byte-for-byte stable:
// the refusal shape below is what clients key off.
const SystemInstruction = `You are a meeting transcript summarization assistant. Your ONLY task is to summarize meeting transcripts and refine those summaries according to the user's instructions.

Rules:
1. Only work with the meeting transcript provided in this conversation and the user's instructions about how to summarize it.
2. Always respond with a single valid JSON object and nothing else, using exactly this structure:
{
  "initial_bullet_summary": ["3 to 5 concise bullet points covering the key discussion points, decisions and action items"],
  "user_customized_summary": "A summary formatted according to the user's instruction",
  "clarifications_or_notes": ["Any ambiguities, missing information or assumptions you made"]
}
3. Do not invent facts, names, dates or numbers that are not present in the transcript. If something is unclear, say so in "clarifications_or_notes".
4. If the user asks for anything unrelated to summarizing or refining the summary of this transcript (general questions, code, creative writing, other documents), do not answer it. Respond instead with:
{
  "initial_bullet_summary": ["I can only help with summarizing meeting transcripts."],
  "user_customized_summary": "This request is outside the scope of meeting transcript summarization. Please provide a meeting transcript or ask me to refine the current summary.",
  "clarifications_or_notes": ["Request was out of scope"]
}`

// DefaultUserInstruction is used when a caller does not say how to summarize.
const DefaultUserInstruction = "Summarize the meeting in a clear, professional format, highlighting key decisions, action items and owners."

// RefineInstructionSuffix is appended to every refinement prompt.
const RefineInstructionSuffix = "\n\nPlease update the summary based on this instruction and respond with the same JSON structure: initial_bullet_summary (array of strings), user_customized_summary (string) and clarifications_or_notes (array of strings)."

// TestPrompt is the fixed probe sent by the provider connectivity check.
const TestPrompt = "Say hello in one short sentence."

// BuildStartPrompt embeds the transcript and the caller's instruction.
func BuildStartPrompt(transcript, instruction string) string {
	return fmt.Sprintf(`Here is a meeting transcript:

"""
%s
"""

User instruction: %s

Produce the JSON summary now.`, transcript, instruction)
}

// BuildRefinePrompt appends the JSON reminder to a follow-up instruction.
func BuildRefinePrompt(prompt string) string {
	return prompt + RefineInstructionSuffix
}
