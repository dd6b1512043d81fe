// Package extractor pulls type-specific structured fields out of document text
// using ordered regex cascades. Extraction degrades field by field and never
// fails the whole record.
package extractor

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"docintel/internal/domain"
)

// fieldRule extracts a single named field. ok=false omits the field.
type fieldRule struct {
	name    string
	extract func(text string) (value any, ok bool)
}

var invoiceRules = []fieldRule{
	{"invoice_number", func(t string) (any, bool) { return upper(firstGroup(t, invoiceNumberPatterns...)) }},
	{"date", func(t string) (any, bool) { return ExtractDate(t) }},
	{"company", func(t string) (any, bool) { return company(t) }},
	{"total_amount", func(t string) (any, bool) { return amount(t) }},
}

var resumeRules = []fieldRule{
	{"name", func(t string) (any, bool) { return name(t) }},
	{"email", func(t string) (any, bool) { return fullMatch(t, emailPattern) }},
	{"phone", func(t string) (any, bool) { return fullMatch(t, phonePatterns...) }},
	{"experience_years", func(t string) (any, bool) { return experienceYears(t) }},
}

var utilityRules = []fieldRule{
	{"account_number", func(t string) (any, bool) { return upper(firstGroup(t, accountNumberPattern)) }},
	{"date", func(t string) (any, bool) { return ExtractDate(t) }},
	{"usage_kwh", func(t string) (any, bool) { return usage(t) }},
	{"amount_due", func(t string) (any, bool) { return amount(t) }},
}

var rulesByLabel = map[domain.Label][]fieldRule{
	domain.LabelInvoice:     invoiceRules,
	domain.LabelResume:      resumeRules,
	domain.LabelUtilityBill: utilityRules,
}

// Extractor runs the field cascade for a label.
type Extractor struct {
	log *slog.Logger
}

// New creates an Extractor.
func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{log: log}
}

// Extract returns the fields for label. Labels without rules yield an empty map.
func (e *Extractor) Extract(text string, label domain.Label) domain.Fields {
	fields := domain.Fields{}
	for _, r := range rulesByLabel[label] {
		if v, ok := e.apply(r, text); ok {
			fields[r.name] = v
		}
	}
	return fields
}

// ExtractBatch builds a record per document using the supplied labels.
// Documents without a label are treated as unclassifiable.
func (e *Extractor) ExtractBatch(docs []domain.Document, labels map[string]domain.Label) map[string]domain.Record {
	out := make(map[string]domain.Record, len(docs))
	for _, d := range docs {
		label, ok := labels[d.Filename]
		if !ok {
			label = domain.LabelUnclassifiable
		}
		out[d.Filename] = domain.Record{
			Filename: d.Filename,
			Class:    label,
			Fields:   e.Extract(d.Text, label),
		}
	}
	return out
}

func (e *Extractor) apply(r fieldRule, text string) (v any, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("field extraction panicked", "field", r.name, "panic", rec)
			v, ok = nil, false
		}
	}()
	return r.extract(text)
}

// ExtractDate finds the first date-shaped substring and normalizes it to YYYY-MM-DD.
func ExtractDate(text string) (string, bool) {
	for _, re := range dateShapePatterns {
		raw := re.FindString(text)
		if raw == "" {
			continue
		}
		if d, ok := NormalizeDate(raw); ok {
			return d, true
		}
	}
	return "", false
}

// NormalizeDate parses raw against the known layouts, first success wins.
func NormalizeDate(raw string) (string, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

func firstGroup(text string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if len(m) > 1 {
			if s := strings.TrimSpace(m[1]); s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func fullMatch(text string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return m, true
		}
	}
	return "", false
}

func upper(s string, ok bool) (string, bool) {
	return strings.ToUpper(s), ok
}

func amount(text string) (float64, bool) {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		return f, true
	}
	return 0, false
}

func company(text string) (string, bool) {
	m := companyPattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return "", false
	}
	s := strings.TrimSpace(m[1])
	return s, s != ""
}

func experienceYears(text string) (int, bool) {
	for _, re := range experiencePatterns {
		m := re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

func usage(text string) (float64, bool) {
	m := usagePattern.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0, false
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// name returns the first of the leading lines that looks like a person's name.
func name(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		words := strings.Fields(line)
		if len(words) < nameMinTokens || len(words) > nameMaxTokens {
			continue
		}
		if !capitalized(words) {
			continue
		}
		lowered := strings.ToLower(line)
		skip := false
		for _, w := range nameStopWords {
			if strings.Contains(lowered, w) {
				skip = true
				break
			}
		}
		if !skip {
			return line, true
		}
	}
	return "", false
}

// capitalized reports whether every token starting with a letter starts with an upper-case one.
func capitalized(words []string) bool {
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsLetter(r) && !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
