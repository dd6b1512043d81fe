// Package classifier assigns a document category by combining a zero-shot
// model prediction with deterministic keyword rules.
package classifier

import (
	"context"
	"errors"
	"log/slog"
	"unicode"

	"docintel/internal/domain"
	"docintel/internal/port"
)

const (
	// HypothesisTemplate is passed to the zero-shot model with each candidate label.
	HypothesisTemplate = "This document is a {}."
	// MaxSampleChars bounds the text sent to the model. Longer text is truncated silently.
	MaxSampleChars = 2000
	// MinSignalChars is the minimum number of non-whitespace characters worth classifying.
	MinSignalChars = 10
)

var errEmptyPrediction = errors.New("classifier returned no labels")

// Classifier orchestrates the zero-shot call, the confidence floor and the rule engine.
type Classifier struct {
	model port.ZeroShotClassifier
	log   *slog.Logger
}

// New creates a Classifier backed by the given zero-shot model.
func New(model port.ZeroShotClassifier, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{model: model, log: log}
}

// Classify returns the final label for text. It never fails: every error path
// resolves to domain.LabelUnclassifiable.
func (c *Classifier) Classify(ctx context.Context, text, filename string) domain.Label {
	if nonSpaceCount(text) < MinSignalChars {
		c.log.Warn("insufficient text for classification", "filename", filename)
		return domain.LabelUnclassifiable
	}

	res, err := c.predict(ctx, truncate(text, MaxSampleChars))
	if err != nil {
		c.log.Error("classification failed", "filename", filename, "error", err)
		return domain.LabelUnclassifiable
	}
	c.log.Info("classified document", "filename", filename, "label", res.Label, "confidence", res.Confidence)

	if res.Confidence < MinConfidence {
		return domain.LabelUnclassifiable
	}

	refined := Refine(text, res.Label, res.Confidence)
	if refined != res.Label {
		c.log.Info("rule override", "filename", filename, "from", res.Label, "to", refined)
	}
	return refined
}

// ClassifyBatch classifies each document independently, keyed by filename.
func (c *Classifier) ClassifyBatch(ctx context.Context, docs []domain.Document) map[string]domain.Label {
	out := make(map[string]domain.Label, len(docs))
	for _, d := range docs {
		out[d.Filename] = c.Classify(ctx, d.Text, d.Filename)
	}
	return out
}

func (c *Classifier) predict(ctx context.Context, sample string) (*domain.ClassificationResult, error) {
	labels := make([]string, len(domain.CandidateLabels))
	for i, l := range domain.CandidateLabels {
		labels[i] = string(l)
	}

	out, err := c.model.Classify(ctx, sample, labels, HypothesisTemplate)
	if err != nil {
		return nil, err
	}
	if out == nil || len(out.Labels) == 0 || len(out.Scores) == 0 {
		return nil, errEmptyPrediction
	}
	return &domain.ClassificationResult{
		Label:      domain.ParseLabel(out.Labels[0]),
		Confidence: out.Scores[0],
	}, nil
}

func nonSpaceCount(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
