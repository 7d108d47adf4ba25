// Package app wires configuration, the classifier backends and the result
// store into the refeval command tree.
package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"refeval/internal/config"
	"refeval/internal/dataset"
	"refeval/internal/eval"
	"refeval/internal/httpx"
	"refeval/internal/integrations/llm"
	slackbot "refeval/internal/integrations/slack"
	"refeval/internal/logging"
	"refeval/internal/metric"
)

func Main() {
	if err := NewRootCmd().Execute(); err != nil {
		logging.L.Errorf("refeval: %v", err)
		os.Exit(1)
	}
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "refeval",
		Short: "Evaluate an LLM's ability to recognize code refactorings",
		Long: `refeval asks a language model whether each code change in a labeled dataset
is a given refactoring, stores every answer, and scores the answers.

All parameters come from config.yaml (or CONFIG_PATH) and environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "evaluate",
			Short: "Classify the dataset once per configured refactoring type",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := loadConfig()
				if err := cfg.RequireCredentials(); err != nil {
					logging.L.Fatalf("invalid configuration: %v", err)
				}
				classifier, err := llm.NewClassifier(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				return Evaluate(cmd.Context(), cfg, classifier)
			},
		},
		&cobra.Command{
			Use:   "metrics",
			Short: "Score stored results and write one report per refactoring type",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return Metrics(cmd.Context(), loadConfig())
			},
		},
	)
	return root
}

func loadConfig() config.Config {
	cfg := config.LoadConfig()
	applied := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
	logging.L.Infof("config loaded provider=%s model=%s strategy=%s language=%s fewshot_language=%s fewshot_count=%d types=%d results_dir=%s external_http_timeout=%s",
		cfg.LLMProvider,
		cfg.LLMModel,
		cfg.Strategy,
		cfg.Language,
		cfg.FewshotLanguage,
		cfg.FewshotCount,
		len(cfg.RefactoringTypes),
		cfg.ResultsDir,
		applied,
	)
	return cfg
}

// Evaluate runs every configured type over the dataset with the given classifier.
func Evaluate(ctx context.Context, cfg config.Config, classifier llm.Classifier) error {
	samples, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		return err
	}
	logging.L.Infof("dataset loaded path=%s samples=%d by_label=%v", cfg.DatasetPath, len(samples), dataset.CountByType(samples))

	_, err = eval.NewRunner(cfg, classifier).Run(ctx, cfg.RefactoringTypes, samples)
	return err
}

// Metrics scores stored results. When Slack is configured the summary is also
// posted; a failed post is logged and does not fail the command.
func Metrics(ctx context.Context, cfg config.Config) error {
	reports, err := metric.NewCalculator(cfg).Run(cfg.RefactoringTypes)
	if err != nil {
		return err
	}
	if !cfg.SlackConfigured() {
		return nil
	}
	notifier := slackbot.NewNotifier(cfg.SlackBotToken, cfg.ReportChannelID)
	if err := notifier.PostMetricSummary(ctx, cfg.Strategy, cfg.Language, reports); err != nil {
		logging.L.Warnf("slack summary failed channel=%s err=%v", cfg.ReportChannelID, err)
	}
	return nil
}
