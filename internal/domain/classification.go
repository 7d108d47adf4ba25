package domain

// FewshotExample is a pre-authored worked example embedded in SARP prompts.
type FewshotExample struct {
	BeforeCode   string `json:"before_code"`
	AfterCode    string `json:"after_code"`
	RefactorType string `json:"refactor_type"`
	Explanation  string `json:"explanation"`
}

type PromptPair struct {
	System string
	User   string
}

// ClassificationResult is the two-field answer the model is constrained to return.
type ClassificationResult struct {
	Refactor    bool   `json:"Refactor"`
	Explanation string `json:"Explanation"`
}

func (r ClassificationResult) Prediction() Prediction {
	refactor, explanation := r.Refactor, r.Explanation
	return Prediction{Refactor: &refactor, Explanation: &explanation}
}

// Prediction is the persisted form of a ClassificationResult. A failed call is
// stored as the empty object {}.
type Prediction struct {
	Refactor    *bool   `json:"Refactor,omitempty"`
	Explanation *string `json:"Explanation,omitempty"`
}

// IsRefactor treats a missing decision as false.
func (p Prediction) IsRefactor() bool {
	return p.Refactor != nil && *p.Refactor
}

func (p Prediction) IsEmpty() bool {
	return p.Refactor == nil && p.Explanation == nil
}

// ResultRecord is written once per sample by the evaluation runner.
type ResultRecord struct {
	ID           SampleID   `json:"id"`
	SystemPrompt string     `json:"system_prompt"`
	UserPrompt   string     `json:"user_prompt"`
	GroundTruth  string     `json:"ground_truth"`
	Prediction   Prediction `json:"prediction_parsed"`
	Error        string     `json:"error,omitempty"`
}
