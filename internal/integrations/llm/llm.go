// Package llm sends prompt pairs to a hosted model and parses the two-field
// refactoring verdict it is constrained to return.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"refeval/internal/domain"
	"refeval/internal/logging"
)

// Decoding parameters are fixed for every backend. The Anthropic backend sends
// Temperature only: its API rejects temperature and top_p together, and TopP
// equals the service default there.
const (
	Temperature = 0.0
	TopP        = 1.0
)

var (
	ErrEmptyResponse   = errors.New("llm: empty response")
	ErrSchemaViolation = errors.New("llm: response does not match the Refactor/Explanation schema")
)

type Request struct {
	Prompt          domain.PromptPair
	RefactoringType domain.RefactoringType
	MaxOutputTokens int64
}

type Response struct {
	Result domain.ClassificationResult
	Usage  Usage
}

type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

func (u Usage) TotalTokens() int64 {
	return u.InputTokens + u.OutputTokens
}

func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

type Classifier interface {
	Name() string
	Classify(ctx context.Context, req Request) (Response, error)
}

// Outcome is the result of one classification attempt: either a Result or the
// reason it failed. Usage is set whenever the backend reported it.
type Outcome struct {
	Result domain.ClassificationResult
	Usage  Usage
	Err    error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Prediction is the persisted form of the outcome; failures become {}.
func (o Outcome) Prediction() domain.Prediction {
	if o.Err != nil {
		return domain.Prediction{}
	}
	return o.Result.Prediction()
}

// Do runs a single classification and never retries. Failures are logged and
// returned inside the Outcome so a dataset pass can continue.
func Do(ctx context.Context, c Classifier, req Request) Outcome {
	logging.L.Debugf("llm classify backend=%s type=%q system_bytes=%d user_bytes=%d max_tokens=%d",
		c.Name(), req.RefactoringType, len(req.Prompt.System), len(req.Prompt.User), req.MaxOutputTokens)
	resp, err := c.Classify(ctx, req)
	if err != nil {
		logging.L.Warnf("llm classify failed backend=%s type=%q err=%v", c.Name(), req.RefactoringType, err)
		return Outcome{Usage: resp.Usage, Err: err}
	}
	logging.L.Debugf("llm classify done backend=%s refactor=%t tokens_in=%d tokens_out=%d",
		c.Name(), resp.Result.Refactor, resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return Outcome{Result: resp.Result, Usage: resp.Usage}
}

type classificationWire struct {
	Refactor    *bool   `json:"Refactor"`
	Explanation *string `json:"Explanation"`
}

// parseClassification accepts the raw JSON text of a reply, tolerating a
// surrounding markdown code fence, and requires both fields to be present.
func parseClassification(responseText string) (domain.ClassificationResult, error) {
	responseText = strings.TrimSpace(responseText)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)
	if responseText == "" {
		return domain.ClassificationResult{}, ErrEmptyResponse
	}

	var w classificationWire
	if err := json.Unmarshal([]byte(responseText), &w); err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: %v (response: %s)", ErrSchemaViolation, err, truncate(responseText, 512))
	}
	if w.Refactor == nil || w.Explanation == nil {
		return domain.ClassificationResult{}, fmt.Errorf("%w: missing field (response: %s)", ErrSchemaViolation, truncate(responseText, 512))
	}
	return domain.ClassificationResult{Refactor: *w.Refactor, Explanation: *w.Explanation}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + fmt.Sprintf("... [truncated, total_length=%d]", len(s))
}

const schemaName = "refactoring_response"

// responseSchema is the JSON schema of the two-field verdict.
func responseSchema(rType domain.RefactoringType) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           schemaProperties(rType),
		"required":             []string{"Refactor", "Explanation"},
		"additionalProperties": false,
	}
}

func schemaProperties(rType domain.RefactoringType) map[string]any {
	return map[string]any{
		"Refactor": map[string]any{
			"type":        "boolean",
			"description": refactorFieldDescription(rType),
		},
		"Explanation": map[string]any{
			"type":        "string",
			"description": explanationFieldDescription,
		},
	}
}

const explanationFieldDescription = "A brief explanation of the reasoning behind the decision."

func refactorFieldDescription(rType domain.RefactoringType) string {
	return fmt.Sprintf("Whether the code change is a refactoring of %s.", rType)
}
