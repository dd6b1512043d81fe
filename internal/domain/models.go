package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Document is the plain text of one uploaded file.
type Document struct {
	Filename string
	Text     string
}

// ClassificationResult is the raw output of the zero-shot stage.
type ClassificationResult struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Fields holds extracted values keyed by field name. Values are string, float64 or int.
// Fields that could not be extracted are absent, never nil.
type Fields map[string]any

// Record is the processed result of one document as stored in the results store.
type Record struct {
	Filename  string
	IndexName string
	Class     Label
	Fields    Fields
}

// reserved keys that extracted fields may not shadow.
var recordKeys = map[string]bool{"filename": true, "index_name": true, "class": true}

// MarshalJSON flattens the extracted fields next to filename, index_name and class.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+3)
	for k, v := range r.Fields {
		if recordKeys[k] {
			continue
		}
		out[k] = v
	}
	out["filename"] = r.Filename
	out["index_name"] = r.IndexName
	out["class"] = r.Class
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON. Whole-number JSON values for
// experience_years come back as int.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rec := Record{Fields: Fields{}}
	for k, v := range raw {
		switch k {
		case "filename":
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("record: filename is %T", v)
			}
			rec.Filename = s
		case "index_name":
			s, _ := v.(string)
			rec.IndexName = s
		case "class":
			s, _ := v.(string)
			rec.Class = ParseLabel(s)
		default:
			rec.Fields[k] = fieldValue(k, v)
		}
	}
	*r = rec
	return nil
}

// FieldNames returns the populated field names in sorted order.
func (r Record) FieldNames() []string {
	names := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// IntFields lists the extracted fields whose values are integers.
var IntFields = map[string]bool{"experience_years": true}

// DecodeFields parses a JSON object of extracted fields.
func DecodeFields(data []byte) (Fields, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	fields := make(Fields, len(raw))
	for k, v := range raw {
		fields[k] = fieldValue(k, v)
	}
	return fields, nil
}

// fieldValue restores integer fields that JSON decoding turned into float64.
func fieldValue(name string, v any) any {
	if f, ok := v.(float64); ok && IntFields[name] {
		return int(f)
	}
	return v
}

// IndexEntry is a single embedded document inside a collection.
type IndexEntry struct {
	ID       uuid.UUID `json:"id"`
	Vector   []float32 `json:"vector"`
	Text     string    `json:"text"`
	Filename string    `json:"filename"`
	AddedAt  time.Time `json:"added_at"`
}

// CollectionInfo summarizes an in-memory collection.
type CollectionInfo struct {
	Name       string `json:"name"`
	Entries    int    `json:"entries"`
	Dimensions int    `json:"dimensions"`
}

// SearchHit is one ranked search result.
type SearchHit struct {
	Rank            int     `json:"rank"`
	Filename        string  `json:"filename"`
	SimilarityScore float64 `json:"similarity_score"`
	TextSnippet     string  `json:"text_snippet"`
}
