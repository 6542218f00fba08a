package formatting

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/types"
)

// ResumeResult is the outcome of a conversion. Resume is always
// non-nil. Err records the absorbed failure when Degraded is true; it
// is informational only and is never a hard failure for the caller.
type ResumeResult struct {
	Resume   *types.Resume
	Degraded bool
	Err      error
}

// Converter runs the extraction-to-resume pipeline: prompt construction,
// the retried LLM call, normalization, and the fallback path.
type Converter struct {
	client llm.Client
	retry  llm.RetryPolicy
}

// NewConverter creates a Converter around an already-constructed LLM
// client. Credential checks happen at client construction, before any
// conversion starts.
func NewConverter(client llm.Client) *Converter {
	return &Converter{
		client: client,
		retry:  llm.DefaultRetryPolicy(),
	}
}

// WithRetryPolicy overrides the default retry policy. Used by tests.
func (c *Converter) WithRetryPolicy(p llm.RetryPolicy) *Converter {
	c.retry = p
	return c
}

// Convert turns extracted CV text into a Resume. It never fails: every
// error path resolves to the deterministic fallback so user-facing
// conversion cannot discard the uploaded document's content. The
// returned degraded flag is true when the fallback produced the result,
// letting callers surface a soft warning.
func (c *Converter) Convert(ctx context.Context, extractedText string) *ResumeResult {
	if len(strings.TrimSpace(extractedText)) < minTextLength {
		log.Printf("formatting: extracted text too short (%d chars), using fallback", len(extractedText))
		return &ResumeResult{Resume: FallbackResume(extractedText), Degraded: true}
	}

	system, user := BuildPrompts(extractedText)

	raw, err := c.retry.Do(ctx, func() (string, error) {
		return c.client.Complete(ctx, llm.Request{
			System:      system,
			User:        user,
			Temperature: llm.TemperatureExtraction,
			MaxTokens:   llm.DefaultMaxTokens,
			JSONOnly:    true,
		})
	})
	if err != nil {
		log.Printf("formatting: LLM call failed, using fallback: %v", err)
		return &ResumeResult{
			Resume:   FallbackResume(extractedText),
			Degraded: true,
			Err:      &APICallError{Message: "generation failed", Cause: err},
		}
	}

	normalized, err := NormalizeResponse(raw)
	if err != nil {
		log.Printf("formatting: unusable LLM response, using fallback: %v", err)
		return &ResumeResult{
			Resume:   FallbackResume(extractedText),
			Degraded: true,
			Err:      err,
		}
	}

	return &ResumeResult{Resume: normalized}
}
