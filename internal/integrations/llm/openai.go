package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

type OpenAIClassifier struct {
	client openai.Client
	model  string
}

func NewOpenAIClassifier(apiKey, model, baseURL string, httpClient *http.Client, extra ...openaiopt.RequestOption) *OpenAIClassifier {
	opts := []openaiopt.RequestOption{openaiopt.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, openaiopt.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, openaiopt.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)
	return &OpenAIClassifier{client: openai.NewClient(opts...), model: model}
}

func (c *OpenAIClassifier) Name() string { return "openai:" + c.model }

func (c *OpenAIClassifier) Classify(ctx context.Context, req Request) (Response, error) {
	completion, err := c.client.Chat.Completions.New(ctx, buildOpenAIParams(c.model, req))
	if err != nil {
		return Response{}, fmt.Errorf("OpenAI API error: %w", err)
	}

	usage := Usage{
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
	}
	if len(completion.Choices) == 0 {
		return Response{Usage: usage}, fmt.Errorf("no choices in OpenAI response: %w", ErrEmptyResponse)
	}
	msg := completion.Choices[0].Message
	if msg.Refusal != "" {
		return Response{Usage: usage}, fmt.Errorf("OpenAI refused: %s", msg.Refusal)
	}
	result, err := parseClassification(msg.Content)
	if err != nil {
		return Response{Usage: usage}, err
	}
	return Response{Result: result, Usage: usage}, nil
}

func buildOpenAIParams(model string, req Request) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.Prompt.System),
			openai.UserMessage(req.Prompt.User),
		},
		Temperature:         openai.Float(Temperature),
		TopP:                openai.Float(TopP),
		MaxCompletionTokens: openai.Int(req.MaxOutputTokens),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schemaName,
					Schema: responseSchema(req.RefactoringType),
					Strict: openai.Bool(true),
				},
			},
		},
	}
}
