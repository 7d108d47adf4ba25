package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

// classificationTool is the only tool offered to the model, and the model is
// forced to call it, so its input is the structured verdict.
const classificationTool = "record_classification"

type AnthropicClassifier struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClassifier(apiKey, model, baseURL string, httpClient *http.Client, extra ...anthropicopt.RequestOption) *AnthropicClassifier {
	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, anthropicopt.WithHTTPClient(httpClient))
	}
	opts = append(opts, extra...)
	return &AnthropicClassifier{client: anthropic.NewClient(opts...), model: model}
}

func (c *AnthropicClassifier) Name() string { return "anthropic:" + c.model }

func (c *AnthropicClassifier) Classify(ctx context.Context, req Request) (Response, error) {
	message, err := c.client.Messages.New(ctx, buildAnthropicParams(c.model, req))
	if err != nil {
		return Response{}, fmt.Errorf("Anthropic API error: %w", err)
	}
	usage := Usage{
		InputTokens:  message.Usage.InputTokens,
		OutputTokens: message.Usage.OutputTokens,
	}

	var text string
	for _, block := range message.Content {
		switch block.Type {
		case "tool_use":
			if block.Name != classificationTool {
				continue
			}
			result, err := parseClassification(string(block.Input))
			if err != nil {
				return Response{Usage: usage}, err
			}
			return Response{Result: result, Usage: usage}, nil
		case "text":
			text += block.Text
		}
	}
	if text == "" {
		return Response{Usage: usage}, fmt.Errorf("no tool call in Anthropic response: %w", ErrEmptyResponse)
	}
	result, err := parseClassification(text)
	if err != nil {
		return Response{Usage: usage}, err
	}
	return Response{Result: result, Usage: usage}, nil
}

// buildAnthropicParams sets temperature only: recent Claude models reject requests
// that set both temperature and top_p, and top_p 1.0 is the service default.
func buildAnthropicParams(model string, req Request) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: req.MaxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: req.Prompt.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt.User)),
		},
		Temperature: anthropic.Float(Temperature),
		Tools: []anthropic.ToolUnionParam{
			{
				OfTool: &anthropic.ToolParam{
					Name:        classificationTool,
					Description: anthropic.String(fmt.Sprintf("Record whether the code change is a %s refactoring.", req.RefactoringType)),
					InputSchema: anthropic.ToolInputSchemaParam{
						Properties: schemaProperties(req.RefactoringType),
						Required:   []string{"Refactor", "Explanation"},
					},
				},
			},
		},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: classificationTool},
		},
	}
}
