package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

var ErrMissingField = errors.New("sample is missing a field required by its refactoring type")

type Label string

const (
	LabelPositive Label = "positive"
	LabelNegative Label = "negative"
)

// SampleID keeps a dataset identifier exactly as it was written, string or number,
// so result files echo it back unchanged.
type SampleID struct {
	value   string
	numeric bool
}

func StringID(s string) SampleID { return SampleID{value: s} }

func NumberID(n int64) SampleID { return SampleID{value: strconv.FormatInt(n, 10), numeric: true} }

func (id SampleID) String() string { return id.value }

func (id SampleID) MarshalJSON() ([]byte, error) {
	if id.numeric && id.value == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *SampleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return errors.New("sample id must be a string or number, got null")
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SampleID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("sample id must be a string or number: %w", err)
	}
	*id = SampleID{value: n.String(), numeric: true}
	return nil
}

type CodeFragment struct {
	SourceCode string `json:"source_code"`
}

// SampleBody is the type-specific before/after shape of a sample. The concrete
// variants are ExtractMethodBody, InlineMethodBody, VariableBody and RenameMethodBody.
type SampleBody interface {
	isSampleBody()
}

type ExtractMethodBody struct {
	OriginalBefore CodeFragment
	OriginalAfter  CodeFragment
	Extracted      CodeFragment
}

type InlineMethodBody struct {
	CallerBefore  CodeFragment
	InlinedMethod CodeFragment
	Caller        CodeFragment
}

// VariableBody serves Rename Variable, Extract Variable and Inline Variable.
type VariableBody struct {
	Original   CodeFragment
	Refactored CodeFragment
}

type RenameMethodBody struct {
	Original CodeFragment
	Renamed  CodeFragment
}

func (ExtractMethodBody) isSampleBody() {}
func (InlineMethodBody) isSampleBody()  {}
func (VariableBody) isSampleBody()      {}
func (RenameMethodBody) isSampleBody()  {}

// Sample is one labeled dataset record. Body is nil when RefactoringType is not a
// known type.
type Sample struct {
	ID              SampleID
	Label           Label
	RefactoringType RefactoringType
	Body            SampleBody
}

// GroundTruth is the sample's own type for positives and NoneRefactoring otherwise.
func (s Sample) GroundTruth() string {
	if s.Label == LabelPositive {
		return string(s.RefactoringType)
	}
	return NoneRefactoring
}

type sampleWire struct {
	ID              SampleID        `json:"id"`
	Label           Label           `json:"label"`
	RefactoringType RefactoringType `json:"refactoring_type"`

	OriginalMethodBefore *CodeFragment `json:"original_method_before_refactoring,omitempty"`
	OriginalMethodAfter  *CodeFragment `json:"original_method_after_refactoring,omitempty"`
	NewlyExtractedMethod *CodeFragment `json:"newly_extracted_method,omitempty"`

	CallerBefore  *CodeFragment `json:"caller_before,omitempty"`
	InlinedMethod *CodeFragment `json:"inlined_method,omitempty"`
	Caller        *CodeFragment `json:"caller,omitempty"`

	OriginalCode   *CodeFragment `json:"original_code,omitempty"`
	RefactoredCode *CodeFragment `json:"refactored_code,omitempty"`

	OriginalMethod *CodeFragment `json:"original_method,omitempty"`
	RenamedMethod  *CodeFragment `json:"renamed_method,omitempty"`
}

func (s *Sample) UnmarshalJSON(data []byte) error {
	var w sampleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Sample{ID: w.ID, Label: w.Label, RefactoringType: w.RefactoringType}

	missing := func(field string) error {
		return fmt.Errorf("sample %s (%s): %w: %s", w.ID, w.RefactoringType, ErrMissingField, field)
	}

	switch w.RefactoringType {
	case ExtractMethod:
		switch {
		case w.OriginalMethodBefore == nil:
			return missing("original_method_before_refactoring")
		case w.OriginalMethodAfter == nil:
			return missing("original_method_after_refactoring")
		case w.NewlyExtractedMethod == nil:
			return missing("newly_extracted_method")
		}
		out.Body = ExtractMethodBody{
			OriginalBefore: *w.OriginalMethodBefore,
			OriginalAfter:  *w.OriginalMethodAfter,
			Extracted:      *w.NewlyExtractedMethod,
		}
	case InlineMethod:
		switch {
		case w.CallerBefore == nil:
			return missing("caller_before")
		case w.InlinedMethod == nil:
			return missing("inlined_method")
		case w.Caller == nil:
			return missing("caller")
		}
		out.Body = InlineMethodBody{
			CallerBefore:  *w.CallerBefore,
			InlinedMethod: *w.InlinedMethod,
			Caller:        *w.Caller,
		}
	case RenameVariable, ExtractVariable, InlineVariable:
		switch {
		case w.OriginalCode == nil:
			return missing("original_code")
		case w.RefactoredCode == nil:
			return missing("refactored_code")
		}
		out.Body = VariableBody{Original: *w.OriginalCode, Refactored: *w.RefactoredCode}
	case RenameMethod:
		switch {
		case w.OriginalMethod == nil:
			return missing("original_method")
		case w.RenamedMethod == nil:
			return missing("renamed_method")
		}
		out.Body = RenameMethodBody{Original: *w.OriginalMethod, Renamed: *w.RenamedMethod}
	}

	*s = out
	return nil
}

func (s Sample) MarshalJSON() ([]byte, error) {
	w := sampleWire{ID: s.ID, Label: s.Label, RefactoringType: s.RefactoringType}
	switch b := s.Body.(type) {
	case ExtractMethodBody:
		w.OriginalMethodBefore, w.OriginalMethodAfter, w.NewlyExtractedMethod = &b.OriginalBefore, &b.OriginalAfter, &b.Extracted
	case InlineMethodBody:
		w.CallerBefore, w.InlinedMethod, w.Caller = &b.CallerBefore, &b.InlinedMethod, &b.Caller
	case VariableBody:
		w.OriginalCode, w.RefactoredCode = &b.Original, &b.Refactored
	case RenameMethodBody:
		w.OriginalMethod, w.RenamedMethod = &b.Original, &b.Renamed
	}
	return json.Marshal(w)
}
