// Package metric scores persisted classification records for one refactoring
// type at a time and writes a plain-text report per type.
package metric

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"refeval/internal/domain"
)

// BinaryVectors maps each record to a ground-truth bit (label equals rType,
// ignoring case and surrounding space) and a prediction bit (Refactor is true;
// a missing decision counts as false).
func BinaryVectors(rType domain.RefactoringType, records []domain.ResultRecord) (yTrue, yPred []int) {
	target := strings.ToLower(string(rType))
	yTrue = make([]int, len(records))
	yPred = make([]int, len(records))
	for i, rec := range records {
		if strings.ToLower(strings.TrimSpace(rec.GroundTruth)) == target {
			yTrue[i] = 1
		}
		if rec.Prediction.IsRefactor() {
			yPred[i] = 1
		}
	}
	return yTrue, yPred
}

// ConfusionMatrix counts the four cells with label order [0, 1].
func ConfusionMatrix(yTrue, yPred []int) (tn, fp, fn, tp int) {
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			tp++
		case yTrue[i] == 0 && yPred[i] == 1:
			fp++
		case yTrue[i] == 1 && yPred[i] == 0:
			fn++
		default:
			tn++
		}
	}
	return tn, fp, fn, tp
}

// PrecisionRecallF1 uses the binary definitions with 1 as the positive label.
// Any zero denominator yields 0 for that metric.
func PrecisionRecallF1(yTrue, yPred []int) (precision, recall, f1 float64) {
	_, fp, fn, tp := ConfusionMatrix(yTrue, yPred)
	precision = ratio(tp, tp+fp)
	recall = ratio(tp, tp+fn)
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

type LabelCount struct {
	Label string
	Count int
}

type Report struct {
	RefactoringType domain.RefactoringType
	Precision       float64
	Recall          float64
	F1              float64
	Total           int
	TruePositives   int
	FalsePositives  int
	FalseNegatives  int
	TrueNegatives   int
	// Ground-truth labels of false positives, in first-seen order.
	Confused        []LabelCount
}

func Compute(rType domain.RefactoringType, records []domain.ResultRecord) Report {
	yTrue, yPred := BinaryVectors(rType, records)
	precision, recall, f1 := PrecisionRecallF1(yTrue, yPred)
	tn, fp, fn, tp := ConfusionMatrix(yTrue, yPred)

	report := Report{
		RefactoringType: rType,
		Precision:       precision,
		Recall:          recall,
		F1:              f1,
		Total:           len(records),
		TruePositives:   tp,
		FalsePositives:  fp,
		FalseNegatives:  fn,
		TrueNegatives:   tn,
	}

	index := make(map[string]int)
	for i, rec := range records {
		if yTrue[i] == 1 || yPred[i] == 0 {
			continue
		}
		label := confusedLabel(rec.GroundTruth)
		if at, ok := index[label]; ok {
			report.Confused[at].Count++
			continue
		}
		index[label] = len(report.Confused)
		report.Confused = append(report.Confused, LabelCount{Label: label, Count: 1})
	}
	return report
}

var titleCaser = cases.Title(language.English)

// confusedLabel prefers the canonical type spelling so that differently cased
// labels for the same type are counted together.
func confusedLabel(groundTruth string) string {
	if canonical, ok := domain.CanonicalLabel(groundTruth); ok {
		return canonical
	}
	return titleCaser.String(strings.ToLower(strings.TrimSpace(groundTruth)))
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Refactoring Type: %s\n", r.RefactoringType)
	fmt.Fprintf(&b, "Precision: %.4f\n", r.Precision)
	fmt.Fprintf(&b, "Recall:    %.4f\n", r.Recall)
	fmt.Fprintf(&b, "F1 Score:  %.4f\n", r.F1)
	fmt.Fprintf(&b, "Total Samples: %d\n", r.Total)
	fmt.Fprintf(&b, "True Positives:  %d\n", r.TruePositives)
	fmt.Fprintf(&b, "False Positives: %d\n", r.FalsePositives)
	fmt.Fprintf(&b, "False Negatives: %d\n", r.FalseNegatives)
	fmt.Fprintf(&b, "True Negatives:  %d\n", r.TrueNegatives)
	if len(r.Confused) > 0 {
		b.WriteString("\nMisclassified Other Types as This Type:\n")
		for _, c := range r.Confused {
			fmt.Fprintf(&b, "- %s: %d\n", c.Label, c.Count)
		}
	}
	return b.String()
}
