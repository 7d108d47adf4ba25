package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	genai "google.golang.org/genai"

	"refeval/internal/domain"
)

type GeminiClassifier struct {
	cli   *genai.Client
	model string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model, baseURL string, httpClient *http.Client) (*GeminiClassifier, error) {
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	return &GeminiClassifier{cli: cli, model: model}, nil
}

func (g *GeminiClassifier) Name() string { return "gemini:" + g.model }

func (g *GeminiClassifier) Classify(ctx context.Context, req Request) (Response, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(req.Prompt.User, genai.RoleUser)},
		buildGeminiConfig(req),
	)
	if err != nil {
		return Response{}, fmt.Errorf("Gemini API error: %w", err)
	}
	var usage Usage
	if resp.UsageMetadata != nil {
		usage.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}
	text := geminiText(resp)
	if text == "" {
		return Response{Usage: usage}, fmt.Errorf("no candidates in Gemini response: %w", ErrEmptyResponse)
	}
	result, err := parseClassification(text)
	if err != nil {
		return Response{Usage: usage}, err
	}
	return Response{Result: result, Usage: usage}, nil
}

func buildGeminiConfig(req Request) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr(float32(Temperature)),
		TopP:              genai.Ptr(float32(TopP)),
		MaxOutputTokens:   int32(req.MaxOutputTokens),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    geminiSchema(req.RefactoringType),
	}
}

func geminiSchema(rType domain.RefactoringType) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"Refactor":    {Type: genai.TypeBoolean, Description: refactorFieldDescription(rType)},
			"Explanation": {Type: genai.TypeString, Description: explanationFieldDescription},
		},
		Required: []string{"Refactor", "Explanation"},
	}
}

func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
