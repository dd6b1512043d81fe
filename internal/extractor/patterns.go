package extractor

import "regexp"

// Every list below is evaluated in declared order; the first pattern that
// yields a usable value wins.

var invoiceNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)invoice\s*(?:number|no\.?)\s*[:#]?\s*([a-z0-9\-]*\d[a-z0-9\-]*)`),
	regexp.MustCompile(`(?i)invoice\s*#?\s*:?\s*([a-z0-9\-]*\d[a-z0-9\-]*)`),
	regexp.MustCompile(`(?i)\binv\b\.?\s*#?\s*:?\s*([a-z0-9\-]*\d[a-z0-9\-]*)`),
}

// dateShapePatterns locate a raw date substring: ISO, MM/DD/YYYY, DD-MM-YYYY, Month DD, YYYY.
var dateShapePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`\d{2}-\d{2}-\d{4}`),
	regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{4}`),
}

// dateLayouts are tried in order against the located substring.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
}

// amountPatterns: total amount, amount due, total, grand total.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total\s*amount\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)amount\s*due\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)\btotal\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)grand\s*total\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
}

var companyPattern = regexp.MustCompile(`([A-Z][A-Za-z\s&]+(?:Inc|LLC|Ltd|Corporation|Corp|Company|Co)\.?)`)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
	regexp.MustCompile(`\d{3}-\d{3}-\d{4}`),
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}-\d{4}`),
}

var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+)\s*\+?\s*years?\s*(?:of)?\s*experience`),
	regexp.MustCompile(`(?i)experience\s*:?\s*(\d+)\s*\+?\s*years?`),
}

var accountNumberPattern = regexp.MustCompile(`(?i)account\s*number\s*:?\s*([a-z0-9\-]+)`)

var usagePattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*kwh`)

// nameStopWords disqualify a candidate name line.
var nameStopWords = []string{"resume", "cv", "curriculum"}

const (
	nameScanLines = 5
	nameMinTokens = 2
	nameMaxTokens = 4
)
