// Package prompt builds the system/user prompt pair sent to the classifier.
package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"refeval/internal/assemble"
	"refeval/internal/domain"
)

const roleDefinition = "You are an expert code analyst specializing in identifying and classifying code refactorings."

type Options struct {
	Strategy        domain.Strategy
	Language        string
	FewshotLanguage string
}

// Template holds the parts of a prompt that are fixed for one refactoring type, so
// a dataset pass only renders the sample-specific tail per sample.
type Template struct {
	rType    domain.RefactoringType
	language string
	system   string
	preamble string
	lead     string
}

// NewTemplate prepares prompts for rType. examples are only used by the SARP
// strategy and are rendered in the order given.
func NewTemplate(opts Options, rType domain.RefactoringType, examples []domain.FewshotExample) (*Template, error) {
	t := &Template{
		rType:    rType,
		language: opts.Language,
		system:   SystemPrompt(rType),
		lead:     fmt.Sprintf("Determine whether the following code change is a %s refactoring.\n\n", rType),
	}
	switch opts.Strategy {
	case domain.StrategyZeroShot:
	case domain.StrategySARP:
		desc, ok := Description(rType)
		if !ok {
			return nil, fmt.Errorf("no SARP description for %w: %q", domain.ErrUnknownRefactoringType, rType)
		}
		block, err := fewshotBlock(rType, opts.FewshotLanguage, examples)
		if err != nil {
			return nil, err
		}
		t.preamble = fmt.Sprintf("The characteristics of %s refactoring are as follows:\n%s\n\n", rType, desc) + block
		t.lead = fmt.Sprintf("Now, determine whether the following code change is a %s refactoring.\n\n", rType)
	default:
		return nil, fmt.Errorf("unsupported strategy %q", opts.Strategy)
	}
	return t, nil
}

func (t *Template) RefactoringType() domain.RefactoringType { return t.rType }

// Build renders the prompt pair for one sample. The output depends only on the
// template and the sample.
func (t *Template) Build(sample domain.Sample) domain.PromptPair {
	var user strings.Builder
	user.WriteString(t.preamble)
	user.WriteString(t.lead)
	user.WriteString(assemble.Input(sample, t.language))
	return domain.PromptPair{System: t.system, User: user.String()}
}

func SystemPrompt(rType domain.RefactoringType) string {
	instruction := fmt.Sprintf("Analyze the user's code change and determine whether it constitutes a refactoring of %s. ", rType) +
		"Your response MUST strictly conform to the provided structure:\n\n" +
		"{\n" +
		"  \"Refactor\": true or false,\n" +
		"  \"Explanation\": \"A brief, factual description of why the change is or isn't a refactoring, no additional interpretations or comments.\"\n" +
		"}"
	return roleDefinition + "\n" + instruction
}

func fewshotBlock(rType domain.RefactoringType, lang string, examples []domain.FewshotExample) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Here are some code change examples in %s\n", assemble.DisplayName(lang))
	for _, ex := range examples {
		answer, err := answerJSON(ex, rType)
		if err != nil {
			return "", err
		}
		b.WriteString("Example:\n")
		b.WriteString("Original Code:\n" + ex.BeforeCode + "\n")
		b.WriteString("Modified Code:\n" + ex.AfterCode + "\n")
		b.WriteString("Answer:\n")
		b.WriteString(answer)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// answerJSON renders the expected answer for a worked example as an indented JSON
// object followed by a newline.
func answerJSON(ex domain.FewshotExample, rType domain.RefactoringType) (string, error) {
	answer := domain.ClassificationResult{
		Refactor:    strings.EqualFold(strings.TrimSpace(ex.RefactorType), string(rType)),
		Explanation: ex.Explanation,
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(answer); err != nil {
		return "", fmt.Errorf("encoding few-shot answer: %w", err)
	}
	return buf.String(), nil
}
