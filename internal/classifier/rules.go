package classifier

import (
	"strings"

	"docintel/internal/domain"
)

const (
	// MinConfidence is the floor below which the model label is discarded.
	MinConfidence = 0.30
	// WeakConfidence marks a model label as weak for the demotion rule.
	WeakConfidence = 0.50
	// OverrideKeywordCount is the keyword hit count that forces a category.
	OverrideKeywordCount = 3
	// WeakKeywordCount is the hit count below which the rule signal is weak.
	WeakKeywordCount = 2
)

var invoiceKeywords = []string{
	"invoice", "invoice number", "invoice #", "bill to",
	"total amount", "amount due", "payment terms", "subtotal",
	"tax", "vat", "due date",
}

var resumeKeywords = []string{
	"resume", "curriculum vitae", "cv", "experience",
	"education", "skills", "objective", "professional summary",
	"work history", "employment", "qualifications",
}

var utilityKeywords = []string{
	"utility", "electric", "electricity", "gas", "water",
	"kwh", "kilowatt", "meter", "usage", "service address",
	"account number", "billing period", "current charges",
}

// keywordRule forces label when its keyword count reaches OverrideKeywordCount.
type keywordRule struct {
	label    domain.Label
	keywords []string
}

// overrideRules are evaluated in declared order; the first that fires wins.
var overrideRules = []keywordRule{
	{label: domain.LabelInvoice, keywords: invoiceKeywords},
	{label: domain.LabelResume, keywords: resumeKeywords},
	{label: domain.LabelUtilityBill, keywords: utilityKeywords},
}

// countKeywords sums every occurrence of every keyword in lowered text.
func countKeywords(lowered string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		n += strings.Count(lowered, kw)
	}
	return n
}

// KeywordCounts returns the keyword hit count per rule category.
func KeywordCounts(text string) map[domain.Label]int {
	lowered := strings.ToLower(text)
	counts := make(map[domain.Label]int, len(overrideRules))
	for _, r := range overrideRules {
		counts[r.label] = countKeywords(lowered, r.keywords)
	}
	return counts
}

// Refine applies the deterministic keyword rules to a model prediction.
// It is a pure function of its inputs.
func Refine(text string, label domain.Label, confidence float64) domain.Label {
	lowered := strings.ToLower(text)

	maxCount := 0
	for _, r := range overrideRules {
		n := countKeywords(lowered, r.keywords)
		if n >= OverrideKeywordCount && label != r.label {
			return r.label
		}
		if n > maxCount {
			maxCount = n
		}
	}

	if confidence < WeakConfidence && maxCount < WeakKeywordCount {
		return domain.LabelOther
	}
	return label
}
