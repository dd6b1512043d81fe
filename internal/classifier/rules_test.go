package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docintel/internal/classifier"
	"docintel/internal/domain"
)

func TestRefine_InvoiceOverride(t *testing.T) {
	text := "Invoice for services. Total Amount: $40. Amount Due on receipt."

	got := classifier.Refine(text, domain.LabelOther, 0.9)

	assert.Equal(t, domain.LabelInvoice, got)
}

func TestRefine_ResumeOverride(t *testing.T) {
	text := "My resume. Experience: 5 years. Education: BSc. Skills: Go."

	got := classifier.Refine(text, domain.LabelOther, 0.91)

	assert.Equal(t, domain.LabelResume, got)
}

func TestRefine_UtilityOverride(t *testing.T) {
	text := "Electric service. Meter reading 1200. Usage 340 kWh this billing period."

	got := classifier.Refine(text, domain.LabelInvoice, 0.95)

	assert.Equal(t, domain.LabelUtilityBill, got)
}

func TestRefine_RepeatedKeywordCountsEachOccurrence(t *testing.T) {
	text := "skills skills skills"

	got := classifier.Refine(text, domain.LabelOther, 0.9)

	assert.Equal(t, domain.LabelResume, got)
}

func TestRefine_InvoiceCheckedBeforeResume(t *testing.T) {
	// Both categories qualify; invoice is evaluated first.
	text := "invoice subtotal vat resume education skills"

	got := classifier.Refine(text, domain.LabelOther, 0.9)

	assert.Equal(t, domain.LabelInvoice, got)
}

func TestRefine_SameLabelFallsThroughToNextCategory(t *testing.T) {
	text := "invoice subtotal vat resume education skills"

	got := classifier.Refine(text, domain.LabelInvoice, 0.9)

	assert.Equal(t, domain.LabelResume, got)
}

func TestRefine_DemotesWeakSignal(t *testing.T) {
	text := "Quarterly newsletter about the company picnic"

	got := classifier.Refine(text, domain.LabelResume, 0.45)

	assert.Equal(t, domain.LabelOther, got)
}

func TestRefine_KeepsWeakModelWithSomeKeywords(t *testing.T) {
	text := "invoice with tax"

	got := classifier.Refine(text, domain.LabelInvoice, 0.45)

	assert.Equal(t, domain.LabelInvoice, got)
}

func TestRefine_KeepsConfidentLabel(t *testing.T) {
	text := "Quarterly newsletter about the company picnic"

	got := classifier.Refine(text, domain.LabelResume, 0.75)

	assert.Equal(t, domain.LabelResume, got)
}

func TestRefine_Deterministic(t *testing.T) {
	text := "Invoice number 42, amount due soon, payment terms net 30"
	first := classifier.Refine(text, domain.LabelOther, 0.4)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Refine(text, domain.LabelOther, 0.4))
	}
}

func TestKeywordCounts(t *testing.T) {
	counts := classifier.KeywordCounts("INVOICE #1 bill to ACME, kwh")

	// "invoice" and "invoice #" both match, plus "bill to".
	assert.Equal(t, 3, counts[domain.LabelInvoice])
	assert.Equal(t, 0, counts[domain.LabelResume])
	assert.Equal(t, 1, counts[domain.LabelUtilityBill])
}
