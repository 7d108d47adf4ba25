// Package fewshot reads the pre-authored worked examples used by SARP prompts.
package fewshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"refeval/internal/domain"
)

// Loader resolves example files under Dir as <dir>/<language>/<type_slug>.json.
// Files are re-read on every call.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

func (l *Loader) Path(lang string, rType domain.RefactoringType) string {
	return filepath.Join(l.Dir, strings.ToLower(lang), rType.Slug()+".json")
}

// Load returns the first k examples of the file, in file order. A file with
// fewer than k entries yields all of them.
func (l *Loader) Load(lang string, rType domain.RefactoringType, k int) ([]domain.FewshotExample, error) {
	path := l.Path(lang, rType)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading few-shot examples: %w", err)
	}
	var examples []domain.FewshotExample
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parsing few-shot examples %s: %w", path, err)
	}
	if k >= 0 && len(examples) > k {
		examples = examples[:k]
	}
	return examples, nil
}
