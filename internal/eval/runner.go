// Package eval drives a full dataset pass per refactoring type: prompt, classify,
// record and persist.
package eval

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"refeval/internal/config"
	"refeval/internal/domain"
	"refeval/internal/fewshot"
	"refeval/internal/integrations/llm"
	"refeval/internal/logging"
	"refeval/internal/prompt"
	"refeval/internal/results"
)

type Runner struct {
	Classifier   llm.Classifier
	Store        *results.Store
	Fewshot      *fewshot.Loader
	Prompt       prompt.Options
	FewshotCount int
}

func NewRunner(cfg config.Config, classifier llm.Classifier) *Runner {
	return &Runner{
		Classifier: classifier,
		Store:      results.NewStore(cfg.ResultsDir, cfg.Strategy, cfg.Language),
		Fewshot:    fewshot.NewLoader(cfg.FewshotDir),
		Prompt: prompt.Options{
			Strategy:        cfg.Strategy,
			Language:        cfg.Language,
			FewshotLanguage: cfg.FewshotLanguage,
		},
		FewshotCount: cfg.FewshotCount,
	}
}

// TypeSummary describes one completed pass.
type TypeSummary struct {
	RefactoringType domain.RefactoringType
	Path            string
	Samples         int
	Failures        int
	Usage           llm.Usage
	Elapsed         time.Duration
}

// Run processes the types one after another, each over the whole dataset. The
// first pass that cannot be set up or saved stops the run; passes already saved
// stay on disk.
func (r *Runner) Run(ctx context.Context, types []domain.RefactoringType, samples []domain.Sample) ([]TypeSummary, error) {
	runID := uuid.NewString()
	logging.L.Infof("eval start run_id=%s backend=%s strategy=%s language=%s types=%d samples=%d",
		runID, r.Classifier.Name(), r.Prompt.Strategy, r.Prompt.Language, len(types), len(samples))

	var summaries []TypeSummary
	var total llm.Usage
	for _, rType := range types {
		summary, err := r.RunType(ctx, rType, samples)
		if err != nil {
			return summaries, fmt.Errorf("run %s: %w", rType, err)
		}
		summaries = append(summaries, summary)
		total.Add(summary.Usage)
	}

	logging.L.Infof("eval done run_id=%s types=%d tokens_in=%d tokens_out=%d tokens_total=%d",
		runID, len(summaries), total.InputTokens, total.OutputTokens, total.TotalTokens())
	return summaries, nil
}

// RunType classifies every sample against rType and writes the records once,
// after the last sample. A failed classification is recorded, not fatal.
func (r *Runner) RunType(ctx context.Context, rType domain.RefactoringType, samples []domain.Sample) (TypeSummary, error) {
	start := time.Now()
	tmpl, err := r.template(rType)
	if err != nil {
		return TypeSummary{}, err
	}

	summary := TypeSummary{RefactoringType: rType, Samples: len(samples)}
	records := make([]domain.ResultRecord, 0, len(samples))
	maxTokens := r.Prompt.Strategy.MaxOutputTokens()

	for i, sample := range samples {
		logging.L.Infof("eval progress type=%q sample=%d/%d id=%s", rType, i+1, len(samples), sample.ID)
		pair := tmpl.Build(sample)
		out := llm.Do(ctx, r.Classifier, llm.Request{
			Prompt:          pair,
			RefactoringType: rType,
			MaxOutputTokens: maxTokens,
		})
		summary.Usage.Add(out.Usage)

		record := domain.ResultRecord{
			ID:           sample.ID,
			SystemPrompt: pair.System,
			UserPrompt:   pair.User,
			GroundTruth:  sample.GroundTruth(),
			Prediction:   out.Prediction(),
		}
		if !out.OK() {
			summary.Failures++
			record.Error = out.Err.Error()
		}
		records = append(records, record)
	}

	path, err := r.Store.Save(rType, records)
	if err != nil {
		return TypeSummary{}, err
	}
	summary.Path = path
	summary.Elapsed = time.Since(start)
	logging.L.Infof("eval saved type=%q path=%s samples=%d failures=%d tokens_in=%d tokens_out=%d elapsed=%s",
		rType, path, summary.Samples, summary.Failures, summary.Usage.InputTokens, summary.Usage.OutputTokens, summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

func (r *Runner) template(rType domain.RefactoringType) (*prompt.Template, error) {
	var examples []domain.FewshotExample
	if r.Prompt.Strategy == domain.StrategySARP {
		var err error
		examples, err = r.Fewshot.Load(r.Prompt.FewshotLanguage, rType, r.FewshotCount)
		if err != nil {
			return nil, err
		}
	}
	return prompt.NewTemplate(r.Prompt, rType, examples)
}
