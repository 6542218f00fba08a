// Package formatting converts best-effort CV text into the canonical
// Resume shape via LLM extraction, with a deterministic fallback that
// never discards user data.
package formatting

import (
	"github.com/jonathan/resume-builder/internal/prompts"
)

const (
	// maxPromptChars bounds the CV text embedded in the user prompt to
	// respect provider token limits.
	maxPromptChars = 4000

	// minTextLength is the threshold below which extracted text
	// short-circuits straight to the fallback without a network call.
	minTextLength = 20
)

// BuildPrompts constructs the system and user messages for the
// format-to-resume call. Pure construction: always succeeds, including
// for the empty string (the length check happens in the orchestrator).
func BuildPrompts(cvText string) (system, user string) {
	system = prompts.MustGet("formatting.json", "format-system")
	user = prompts.Format(prompts.MustGet("formatting.json", "format-user"), map[string]string{
		"CVText": truncate(cvText, maxPromptChars),
	})
	return system, user
}

// truncate bounds s to at most n bytes. CV text is overwhelmingly
// ASCII; a mid-rune cut in pathological input only affects the last
// character of an already-truncated prompt.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
