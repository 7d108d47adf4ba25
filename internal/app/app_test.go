package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refeval/internal/config"
	"refeval/internal/domain"
	"refeval/internal/integrations/llm"
)

const datasetJSON = `[
  {"id": 1, "label": "positive", "refactoring_type": "Rename Variable",
   "original_code": {"source_code": "x = 1"}, "refactored_code": {"source_code": "count = 1"}},
  {"id": 2, "label": "negative", "refactoring_type": "Rename Variable",
   "original_code": {"source_code": "y = 1"}, "refactored_code": {"source_code": "y = 2"}}
]`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.json"), []byte(datasetJSON), 0o644))

	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("DATASET_PATH", filepath.Join(dir, "test.json"))
	t.Setenv("RESULTS_DIR", filepath.Join(dir, "results"))
	t.Setenv("METRICS_DIR", filepath.Join(dir, "metrics"))
	t.Setenv("REFACTORING_TYPES", "Rename Variable")
	t.Setenv("STRATEGY", "zeroshot")
	t.Setenv("REFEVAL_LANGUAGE", "python")
	t.Setenv("LANGUAGE", "en_US:en")
	t.Setenv("SLACK_BOT_TOKEN", "")
	t.Setenv("REPORT_CHANNEL_ID", "")
	return dir
}

func TestEvaluateThenMetricsCommand(t *testing.T) {
	dir := setupEnv(t)
	cfg, err := config.Load()
	require.NoError(t, err)

	n := 0
	fake := llm.NewFakeClassifier(func(llm.Request) (domain.ClassificationResult, error) {
		n++
		return domain.ClassificationResult{Refactor: n == 1, Explanation: "scripted"}, nil
	})
	require.NoError(t, Evaluate(context.Background(), cfg, fake))
	assert.FileExists(t, filepath.Join(dir, "results", "zeroshot", "zeroshot_python_rename_variable.json"))

	root := NewRootCmd()
	root.SetArgs([]string{"metrics"})
	require.NoError(t, root.Execute())

	raw, err := os.ReadFile(filepath.Join(dir, "metrics", "zeroshot_python_rename_variable_metric.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Precision: 1.0000\n")
	assert.Contains(t, string(raw), "True Negatives:  1\n")
}

func TestMetricsCommand_MissingResults(t *testing.T) {
	setupEnv(t)
	root := NewRootCmd()
	root.SetArgs([]string{"metrics"})
	assert.ErrorIs(t, root.Execute(), os.ErrNotExist)
}

func TestEvaluate_MissingDataset(t *testing.T) {
	setupEnv(t)
	t.Setenv("DATASET_PATH", filepath.Join(t.TempDir(), "none.json"))
	cfg, err := config.Load()
	require.NoError(t, err)

	fake := llm.NewFakeClassifier(nil)
	assert.ErrorIs(t, Evaluate(context.Background(), cfg, fake), os.ErrNotExist)
	assert.Empty(t, fake.Calls())
}

func TestRootRejectsArgs(t *testing.T) {
	setupEnv(t)
	root := NewRootCmd()
	root.SetArgs([]string{"metrics", "extra"})
	assert.Error(t, root.Execute())
}
