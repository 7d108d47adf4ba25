// Package dataset reads the labeled test set that every evaluation pass runs over.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"refeval/internal/domain"
)

// Load reads a JSON array of samples. Any read or decode problem aborts the
// load, including a sample whose fields do not match its declared type.
func Load(path string) ([]domain.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var samples []domain.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	return samples, nil
}

// CountByType tallies positives per refactoring type and all negatives under
// domain.NoneRefactoring.
func CountByType(samples []domain.Sample) map[string]int {
	counts := make(map[string]int)
	for _, s := range samples {
		counts[s.GroundTruth()]++
	}
	return counts
}
