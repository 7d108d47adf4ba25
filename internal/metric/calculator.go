package metric

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"refeval/internal/config"
	"refeval/internal/domain"
	"refeval/internal/logging"
	"refeval/internal/results"
)

// Calculator reads result files from a results.Store and writes one report per
// type as <dir>/<strategy>_<language>_<type_slug>_metric.txt.
type Calculator struct {
	Store    *results.Store
	Dir      string
	Strategy domain.Strategy
	Language string
}

func NewCalculator(cfg config.Config) *Calculator {
	return &Calculator{
		Store:    results.NewStore(cfg.ResultsDir, cfg.Strategy, cfg.Language),
		Dir:      cfg.MetricsDir,
		Strategy: cfg.Strategy,
		Language: cfg.Language,
	}
}

func (c *Calculator) Path(rType domain.RefactoringType) string {
	name := fmt.Sprintf("%s_%s_%s_metric.txt", c.Strategy, strings.ToLower(c.Language), rType.Slug())
	return filepath.Join(c.Dir, name)
}

// Run scores each type in order. A missing or unreadable result file aborts.
func (c *Calculator) Run(types []domain.RefactoringType) ([]Report, error) {
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating metrics dir: %w", err)
	}
	reports := make([]Report, 0, len(types))
	for _, rType := range types {
		records, err := c.Store.Load(rType)
		if err != nil {
			return reports, err
		}
		report := Compute(rType, records)
		path := c.Path(rType)
		if err := WriteReport(path, report); err != nil {
			return reports, err
		}
		logging.L.Infof("metric saved type=%q path=%s precision=%.4f recall=%.4f f1=%.4f",
			rType, path, report.Precision, report.Recall, report.F1)
		reports = append(reports, report)
	}
	return reports, nil
}

func WriteReport(path string, report Report) error {
	if err := os.WriteFile(path, []byte(report.String()), 0o644); err != nil {
		return fmt.Errorf("writing metric report: %w", err)
	}
	return nil
}
