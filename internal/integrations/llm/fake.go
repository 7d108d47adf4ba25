package llm

import (
	"context"
	"sync"

	"refeval/internal/domain"
)

// FakeClassifier answers from a function instead of a model, for offline runs
// and tests. Every request is recorded.
type FakeClassifier struct {
	Respond func(req Request) (domain.ClassificationResult, error)

	mu    sync.Mutex
	calls []Request
}

func NewFakeClassifier(respond func(req Request) (domain.ClassificationResult, error)) *FakeClassifier {
	return &FakeClassifier{Respond: respond}
}

func (f *FakeClassifier) Name() string { return "fake" }

func (f *FakeClassifier) Classify(ctx context.Context, req Request) (Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if f.Respond == nil {
		return Response{}, ErrEmptyResponse
	}
	result, err := f.Respond(req)
	if err != nil {
		return Response{}, err
	}
	usage := Usage{InputTokens: int64(len(req.Prompt.System)+len(req.Prompt.User)) / 4, OutputTokens: int64(len(result.Explanation)) / 4}
	return Response{Result: result, Usage: usage}, nil
}

func (f *FakeClassifier) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}
