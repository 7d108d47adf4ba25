package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRefactoringType = errors.New("unknown refactoring type")

type RefactoringType string

const (
	ExtractMethod   RefactoringType = "Extract Method"
	InlineMethod    RefactoringType = "Inline Method"
	RenameVariable  RefactoringType = "Rename Variable"
	ExtractVariable RefactoringType = "Extract Variable"
	InlineVariable  RefactoringType = "Inline Variable"
	RenameMethod    RefactoringType = "Rename Method"
)

// NoneRefactoring is the ground truth recorded for negative samples.
const NoneRefactoring = "None Refactoring"

// EvaluationTypes is the ordered list of types an evaluation run covers by default.
var EvaluationTypes = []RefactoringType{
	ExtractMethod,
	InlineMethod,
	RenameVariable,
	ExtractVariable,
	InlineVariable,
}

var knownTypes = []RefactoringType{
	ExtractMethod,
	InlineMethod,
	RenameVariable,
	ExtractVariable,
	InlineVariable,
	RenameMethod,
}

// Slug is the file-name form of the type: spaces become underscores, lower-cased.
func (t RefactoringType) Slug() string {
	return strings.ToLower(strings.ReplaceAll(string(t), " ", "_"))
}

func (t RefactoringType) Known() bool {
	for _, known := range knownTypes {
		if known == t {
			return true
		}
	}
	return false
}

// ParseRefactoringType matches s against the known type names, ignoring case and
// surrounding whitespace. Underscored slugs are accepted as well.
func ParseRefactoringType(s string) (RefactoringType, error) {
	norm := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(s, "_", " ")))
	for _, known := range knownTypes {
		if strings.ToLower(string(known)) == norm {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRefactoringType, s)
}

// CanonicalLabel maps a free-form ground-truth label onto the canonical spelling of a
// known type or of NoneRefactoring. ok is false when nothing matches.
func CanonicalLabel(label string) (string, bool) {
	norm := strings.ToLower(strings.TrimSpace(label))
	if norm == strings.ToLower(NoneRefactoring) {
		return NoneRefactoring, true
	}
	for _, known := range knownTypes {
		if strings.ToLower(string(known)) == norm {
			return string(known), true
		}
	}
	return "", false
}
