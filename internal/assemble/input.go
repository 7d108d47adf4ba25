// Package assemble renders a dataset sample as the before/after text block that is
// placed at the end of every user prompt.
package assemble

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"refeval/internal/domain"
)

// Input renders sample as
//
//	Language: <Lang>
//
//	Original Code:
//	...
//
//	Modified Code:
//	...
//
// A sample whose type is not known has no body, so only the language line is
// produced. Callers that need stricter behavior check sample.Body themselves.
func Input(sample domain.Sample, lang string) string {
	var b strings.Builder
	b.WriteString("Language: ")
	b.WriteString(DisplayName(lang))
	b.WriteString("\n\n")
	b.WriteString(body(sample.Body))
	return b.String()
}

func body(sb domain.SampleBody) string {
	var original, modified []string
	switch v := sb.(type) {
	case domain.ExtractMethodBody:
		original = []string{v.OriginalBefore.SourceCode}
		modified = []string{v.OriginalAfter.SourceCode, v.Extracted.SourceCode}
	case domain.InlineMethodBody:
		original = []string{v.CallerBefore.SourceCode, v.InlinedMethod.SourceCode}
		modified = []string{v.Caller.SourceCode}
	case domain.VariableBody:
		original = []string{v.Original.SourceCode}
		modified = []string{v.Refactored.SourceCode}
	case domain.RenameMethodBody:
		original = []string{v.Original.SourceCode}
		modified = []string{v.Renamed.SourceCode}
	default:
		return ""
	}
	return Block(original, modified)
}

// Block lays out the two sections. Each fragment is followed by a newline and
// the sections are separated by a blank line.
func Block(original, modified []string) string {
	var b strings.Builder
	b.WriteString("Original Code:\n")
	for _, src := range original {
		b.WriteString(src)
		b.WriteString("\n")
	}
	b.WriteString("\nModified Code:\n")
	for _, src := range modified {
		b.WriteString(src)
		b.WriteString("\n")
	}
	return b.String()
}

// DisplayName title-cases a lower-case identifier such as a language name.
func DisplayName(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}
