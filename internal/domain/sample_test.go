package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleUnmarshal_Variants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want SampleBody
	}{
		{
			name: "extract method",
			raw: `{"id": 7, "label": "positive", "refactoring_type": "Extract Method",
				"original_method_before_refactoring": {"source_code": "def a(): x()"},
				"original_method_after_refactoring": {"source_code": "def a(): b()"},
				"newly_extracted_method": {"source_code": "def b(): x()"}}`,
			want: ExtractMethodBody{
				OriginalBefore: CodeFragment{SourceCode: "def a(): x()"},
				OriginalAfter:  CodeFragment{SourceCode: "def a(): b()"},
				Extracted:      CodeFragment{SourceCode: "def b(): x()"},
			},
		},
		{
			name: "inline method",
			raw: `{"id": "im-1", "label": "positive", "refactoring_type": "Inline Method",
				"caller_before": {"source_code": "c1"}, "inlined_method": {"source_code": "m"}, "caller": {"source_code": "c2"}}`,
			want: InlineMethodBody{
				CallerBefore:  CodeFragment{SourceCode: "c1"},
				InlinedMethod: CodeFragment{SourceCode: "m"},
				Caller:        CodeFragment{SourceCode: "c2"},
			},
		},
		{
			name: "variable",
			raw: `{"id": "v", "label": "negative", "refactoring_type": "Inline Variable",
				"original_code": {"source_code": "a"}, "refactored_code": {"source_code": "b"}}`,
			want: VariableBody{Original: CodeFragment{SourceCode: "a"}, Refactored: CodeFragment{SourceCode: "b"}},
		},
		{
			name: "rename method",
			raw: `{"id": "r", "label": "positive", "refactoring_type": "Rename Method",
				"original_method": {"source_code": "def f(): pass"}, "renamed_method": {"source_code": "def g(): pass"}}`,
			want: RenameMethodBody{Original: CodeFragment{SourceCode: "def f(): pass"}, Renamed: CodeFragment{SourceCode: "def g(): pass"}},
		},
		{
			name: "unknown type has no body",
			raw:  `{"id": "u", "label": "positive", "refactoring_type": "Move Class", "original_code": {"source_code": "a"}}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Sample
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.want, s.Body)
		})
	}
}

func TestSampleUnmarshal_MissingFieldIsRejected(t *testing.T) {
	raw := `{"id": 1, "label": "positive", "refactoring_type": "Extract Method",
		"original_method_before_refactoring": {"source_code": "a"},
		"original_method_after_refactoring": {"source_code": "b"}}`
	var s Sample
	err := json.Unmarshal([]byte(raw), &s)
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "newly_extracted_method")
}

func TestSampleGroundTruth(t *testing.T) {
	positive := Sample{Label: LabelPositive, RefactoringType: ExtractMethod}
	assert.Equal(t, "Extract Method", positive.GroundTruth())

	negative := Sample{Label: LabelNegative, RefactoringType: ExtractMethod}
	assert.Equal(t, NoneRefactoring, negative.GroundTruth())
}

func TestSampleIDKeepsJSONKind(t *testing.T) {
	for _, raw := range []string{`42`, `"abc-1"`, `"42"`} {
		var id SampleID
		require.NoError(t, json.Unmarshal([]byte(raw), &id))
		out, err := json.Marshal(id)
		require.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
		assert.Equal(t, raw, string(out))
	}
	assert.NotEqual(t, NumberID(42), StringID("42"))
}

func TestSampleIDRejectsNull(t *testing.T) {
	var samples []Sample
	err := json.Unmarshal([]byte(`[
		{"id": null, "label": "negative", "refactoring_type": "Rename Variable",
		 "original_code": {"source_code": "a"}, "refactored_code": {"source_code": "b"}},
		{"id": 2, "label": "negative", "refactoring_type": "Rename Variable",
		 "original_code": {"source_code": "a"}, "refactored_code": {"source_code": "b"}}
	]`), &samples)
	assert.ErrorContains(t, err, "got null")

	out, err := json.Marshal(SampleID{numeric: true})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestSampleMarshalRoundTrip(t *testing.T) {
	in := Sample{
		ID:              NumberID(3),
		Label:           LabelPositive,
		RefactoringType: RenameVariable,
		Body:            VariableBody{Original: CodeFragment{SourceCode: "x = 1"}, Refactored: CodeFragment{SourceCode: "y = 1"}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Sample
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestParseRefactoringType(t *testing.T) {
	got, err := ParseRefactoringType("  extract_method ")
	require.NoError(t, err)
	assert.Equal(t, ExtractMethod, got)

	_, err = ParseRefactoringType("Pull Up Method")
	assert.ErrorIs(t, err, ErrUnknownRefactoringType)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "extract_variable", ExtractVariable.Slug())
	assert.Equal(t, "rename_method", RenameMethod.Slug())
}

func TestCanonicalLabel(t *testing.T) {
	got, ok := CanonicalLabel("inline  variable")
	assert.False(t, ok)
	assert.Empty(t, got)

	got, ok = CanonicalLabel(" none refactoring ")
	assert.True(t, ok)
	assert.Equal(t, NoneRefactoring, got)

	got, ok = CanonicalLabel("EXTRACT METHOD")
	assert.True(t, ok)
	assert.Equal(t, "Extract Method", got)
}

func TestPredictionEmptyObject(t *testing.T) {
	data, err := json.Marshal(Prediction{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
	assert.False(t, Prediction{}.IsRefactor())

	p := ClassificationResult{Refactor: true, Explanation: "moved block"}.Prediction()
	assert.True(t, p.IsRefactor())
	assert.False(t, p.IsEmpty())
}
