package eval

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refeval/internal/config"
	"refeval/internal/domain"
	"refeval/internal/integrations/llm"
	"refeval/internal/metric"
)

func testConfig(t *testing.T, strategy domain.Strategy) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		Strategy:        strategy,
		Language:        "python",
		FewshotLanguage: "java",
		FewshotDir:      filepath.Join(dir, "prompts"),
		FewshotCount:    2,
		ResultsDir:      filepath.Join(dir, "results"),
		MetricsDir:      filepath.Join(dir, "results", "metrics"),
	}
}

func variableSample(id int64, label domain.Label, before, after string) domain.Sample {
	return domain.Sample{
		ID:              domain.NumberID(id),
		Label:           label,
		RefactoringType: domain.RenameVariable,
		Body: domain.VariableBody{
			Original:   domain.CodeFragment{SourceCode: before},
			Refactored: domain.CodeFragment{SourceCode: after},
		},
	}
}

// scripted answers Refactor in call order.
func scripted(answers ...bool) *llm.FakeClassifier {
	n := 0
	return llm.NewFakeClassifier(func(llm.Request) (domain.ClassificationResult, error) {
		answer := answers[n%len(answers)]
		n++
		return domain.ClassificationResult{Refactor: answer, Explanation: "scripted"}, nil
	})
}

func TestRunType_EndToEnd(t *testing.T) {
	cfg := testConfig(t, domain.StrategyZeroShot)
	samples := []domain.Sample{
		variableSample(1, domain.LabelPositive, "x = 1", "count = 1"),
		variableSample(2, domain.LabelNegative, "y = 2", "y = 3"),
	}
	fake := scripted(true, false)
	runner := NewRunner(cfg, fake)

	summary, err := runner.RunType(context.Background(), domain.RenameVariable, samples)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Samples)
	assert.Zero(t, summary.Failures)
	assert.Equal(t, filepath.Join(cfg.ResultsDir, "zeroshot", "zeroshot_python_rename_variable.json"), summary.Path)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	for _, call := range calls {
		assert.Equal(t, int64(512), call.MaxOutputTokens)
		assert.Equal(t, domain.RenameVariable, call.RefactoringType)
		assert.True(t, strings.HasPrefix(call.Prompt.User, "Determine whether the following code change is a Rename Variable refactoring."))
	}

	records, err := runner.Store.Load(domain.RenameVariable)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Rename Variable", records[0].GroundTruth)
	assert.Equal(t, domain.NoneRefactoring, records[1].GroundTruth)
	assert.Equal(t, calls[0].Prompt.User, records[0].UserPrompt)

	report := metric.Compute(domain.RenameVariable, records)
	assert.InDelta(t, 1.0, report.Precision, 1e-9)
	assert.InDelta(t, 1.0, report.Recall, 1e-9)
	assert.InDelta(t, 1.0, report.F1, 1e-9)
	assert.Equal(t, 1, report.TruePositives)
	assert.Equal(t, 0, report.FalsePositives)
	assert.Equal(t, 0, report.FalseNegatives)
	assert.Equal(t, 1, report.TrueNegatives)
}

func TestRunType_FailureIsRecorded(t *testing.T) {
	cfg := testConfig(t, domain.StrategyZeroShot)
	fake := llm.NewFakeClassifier(func(req llm.Request) (domain.ClassificationResult, error) {
		if strings.Contains(req.Prompt.User, "boom") {
			return domain.ClassificationResult{}, errors.New("upstream timeout")
		}
		return domain.ClassificationResult{Refactor: true, Explanation: "ok"}, nil
	})
	samples := []domain.Sample{
		variableSample(1, domain.LabelPositive, "boom = 1", "bang = 1"),
		variableSample(2, domain.LabelPositive, "a = 1", "b = 1"),
	}

	summary, err := NewRunner(cfg, fake).RunType(context.Background(), domain.RenameVariable, samples)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failures)

	raw, err := os.ReadFile(summary.Path)
	require.NoError(t, err)
	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	require.Len(t, generic, 2)
	assert.Equal(t, map[string]any{}, generic[0]["prediction_parsed"])
	assert.Equal(t, "upstream timeout", generic[0]["error"])
	assert.NotContains(t, generic[1], "error")
	assert.Equal(t, true, generic[1]["prediction_parsed"].(map[string]any)["Refactor"])
}

func TestRun_SARPLoadsExamplesPerType(t *testing.T) {
	cfg := testConfig(t, domain.StrategySARP)
	for _, rType := range []domain.RefactoringType{domain.InlineVariable, domain.ExtractVariable} {
		examples := []domain.FewshotExample{
			{BeforeCode: "int a = b;", AfterCode: "", RefactorType: string(rType), Explanation: "one"},
			{BeforeCode: "x", AfterCode: "y", RefactorType: domain.NoneRefactoring, Explanation: "two"},
			{BeforeCode: "p", AfterCode: "q", RefactorType: domain.NoneRefactoring, Explanation: "three"},
		}
		data, err := json.Marshal(examples)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.FewshotDir, "java"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(cfg.FewshotDir, "java", rType.Slug()+".json"), data, 0o644))
	}

	fake := scripted(false)
	samples := []domain.Sample{variableSample(7, domain.LabelNegative, "v = f()", "v = g()")}
	summaries, err := NewRunner(cfg, fake).Run(context.Background(),
		[]domain.RefactoringType{domain.InlineVariable, domain.ExtractVariable}, samples)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, domain.InlineVariable, summaries[0].RefactoringType)
	assert.Equal(t, domain.ExtractVariable, summaries[1].RefactoringType)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	user := calls[0].Prompt.User
	assert.Equal(t, int64(1024), calls[0].MaxOutputTokens)
	assert.Contains(t, user, "Here are some code change examples in Java")
	assert.Contains(t, user, `"Explanation": "two"`)
	assert.NotContains(t, user, `"Explanation": "three"`)
	assert.Contains(t, user, "Language: Python\n\n")
	for _, s := range summaries {
		_, err := os.Stat(s.Path)
		assert.NoError(t, err)
	}
}

func TestRun_MissingFewshotFileAborts(t *testing.T) {
	cfg := testConfig(t, domain.StrategySARP)
	fake := scripted(true)
	_, err := NewRunner(cfg, fake).Run(context.Background(),
		[]domain.RefactoringType{domain.ExtractMethod}, []domain.Sample{variableSample(1, domain.LabelNegative, "a", "b")})
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, fake.Calls())
}
