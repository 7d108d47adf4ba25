// Package results persists the per-type lists of classification records.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"refeval/internal/domain"
)

// Store lays files out as <dir>/<strategy>/<strategy>_<language>_<type_slug>.json.
type Store struct {
	dir      string
	strategy domain.Strategy
	language string
}

func NewStore(dir string, strategy domain.Strategy, language string) *Store {
	return &Store{dir: dir, strategy: strategy, language: strings.ToLower(language)}
}

func (s *Store) Path(rType domain.RefactoringType) string {
	name := fmt.Sprintf("%s_%s_%s.json", s.strategy, s.language, rType.Slug())
	return filepath.Join(s.dir, string(s.strategy), name)
}

// Save writes the whole record list for one type in a single pass. The file
// only appears under its final name once it is complete.
func (s *Store) Save(rType domain.RefactoringType, records []domain.ResultRecord) (string, error) {
	path := s.Path(rType)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating results dir: %w", err)
	}
	if records == nil {
		records = []domain.ResultRecord{}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", tmp, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("encoding results: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("closing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return path, nil
}

func (s *Store) Load(rType domain.RefactoringType) ([]domain.ResultRecord, error) {
	path := s.Path(rType)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	defer f.Close()
	var records []domain.ResultRecord
	if err := json.NewDecoder(f).Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing results %s: %w", path, err)
	}
	return records, nil
}
