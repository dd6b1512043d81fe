package domain

// Label is the document category assigned by the classification stage.
type Label string

const (
	LabelInvoice        Label = "Invoice"
	LabelResume         Label = "Resume"
	LabelUtilityBill    Label = "Utility Bill"
	LabelOther          Label = "Other"
	LabelUnclassifiable Label = "Unclassifiable"
)

// CandidateLabels is the fixed label set offered to the zero-shot classifier, in order.
var CandidateLabels = []Label{
	LabelInvoice,
	LabelResume,
	LabelUtilityBill,
	LabelOther,
	LabelUnclassifiable,
}

// ParseLabel maps a classifier output string back to a Label.
// Unknown strings map to LabelUnclassifiable.
func ParseLabel(s string) Label {
	for _, l := range CandidateLabels {
		if string(l) == s {
			return l
		}
	}
	return LabelUnclassifiable
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// AllowedContentTypes is the set of sniffed content types accepted for upload.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// ExportFormat selects the results export encoding.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)
