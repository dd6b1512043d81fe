// Package validator checks processed records against per-class JSON schemas
// and strips fields that do not conform.
package validator

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docintel/internal/domain"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var schemaFiles = map[domain.Label]string{
	domain.LabelInvoice:        "invoice.json",
	domain.LabelResume:         "resume.json",
	domain.LabelUtilityBill:    "utility_bill.json",
	domain.LabelOther:          "unstructured.json",
	domain.LabelUnclassifiable: "unstructured.json",
}

// Validator holds the compiled schema for every label.
type Validator struct {
	schemas map[domain.Label]*jsonschema.Schema
	log     *slog.Logger
}

// New compiles the embedded schemas.
func New(log *slog.Logger) (*Validator, error) {
	if log == nil {
		log = slog.Default()
	}
	compiler := jsonschema.NewCompiler()
	compiled := map[string]*jsonschema.Schema{}
	v := &Validator{schemas: map[domain.Label]*jsonschema.Schema{}, log: log}

	for label, file := range schemaFiles {
		if s, ok := compiled[file]; ok {
			v.schemas[label] = s
			continue
		}
		data, err := schemaFS.ReadFile("schemas/" + file)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", file, err)
		}
		if err := compiler.AddResource(file, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", file, err)
		}
		s, err := compiler.Compile(file)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", file, err)
		}
		compiled[file] = s
		v.schemas[label] = s
	}
	return v, nil
}

// Validate reports whether rec matches the schema of its class.
func (v *Validator) Validate(rec *domain.Record) error {
	schema, ok := v.schemas[rec.Class]
	if !ok {
		return fmt.Errorf("%w: unknown class %q", domain.ErrInvalidRecord, rec.Class)
	}

	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	return nil
}

// Sanitize removes extracted fields that violate the schema and returns their
// names. An error means the record is invalid beyond its extracted fields.
func (v *Validator) Sanitize(rec *domain.Record) ([]string, error) {
	err := v.Validate(rec)
	if err == nil {
		return nil, nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	bad := map[string]bool{}
	collectFields(verr, rec.Fields, bad)
	if len(bad) == 0 {
		return nil, err
	}

	dropped := make([]string, 0, len(bad))
	for name := range bad {
		delete(rec.Fields, name)
		dropped = append(dropped, name)
	}
	sort.Strings(dropped)
	v.log.Warn("dropped non-conforming fields", "filename", rec.Filename, "class", rec.Class, "fields", dropped)

	if err := v.Validate(rec); err != nil {
		return dropped, err
	}
	return dropped, nil
}

// collectFields records the top-level extracted field named by each failing
// leaf, or every unknown field when additionalProperties fails at the root.
func collectFields(e *jsonschema.ValidationError, fields domain.Fields, out map[string]bool) {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			collectFields(c, fields, out)
		}
		return
	}

	name := strings.SplitN(strings.TrimPrefix(e.InstanceLocation, "/"), "/", 2)[0]
	if name != "" {
		if _, ok := fields[name]; ok {
			out[name] = true
		}
		return
	}
	if strings.HasSuffix(e.KeywordLocation, "/additionalProperties") {
		for k := range fields {
			if strings.Contains(e.Message, "'"+k+"'") {
				out[k] = true
			}
		}
	}
}
