package port

import "context"

// ZeroShotOutput is the ranked output of a zero-shot classification call.
// Labels and Scores are parallel and ordered best first.
type ZeroShotOutput struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// ZeroShotClassifier abstracts an entailment-style zero-shot text classifier.
type ZeroShotClassifier interface {
	Classify(ctx context.Context, text string, candidateLabels []string, hypothesisTemplate string) (*ZeroShotOutput, error)
}
