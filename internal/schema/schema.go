// Package schema validates OTM documents against the platform's JSON schema
// contract. A missing or broken contract never blocks emission: validation
// degrades to a vacuous pass carrying a warning.
package schema

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/geoffwhittington/devici-mcp/internal/otm"
)

// Violation is one structural defect reported against the schema contract.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Result is the outcome of one validation pass.
type Result struct {
	Valid             bool        `json:"valid"`
	SchemaUnavailable bool        `json:"schema_unavailable,omitempty"`
	Violations        []Violation `json:"violations,omitempty"`
}

// Validator holds a compiled schema contract. A validator whose contract
// failed to load passes every document vacuously and keeps the load problem
// as a warning.
type Validator struct {
	schema  *gojsonschema.Schema
	warning string
}

// NewValidator loads and compiles the schema contract at path. Loading
// problems are never fatal; Warning explains why validation is skipped.
func NewValidator(path string) *Validator {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Validator{warning: fmt.Sprintf("schema contract %q could not be read: %v; validation skipped", path, err)}
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return &Validator{warning: fmt.Sprintf("schema contract %q could not be compiled: %v; validation skipped", path, err)}
	}
	return &Validator{schema: compiled}
}

// Available reports whether a schema contract is loaded.
func (v *Validator) Available() bool {
	return v.schema != nil
}

// Warning returns the reason the contract is unavailable, or "".
func (v *Validator) Warning() string {
	return v.warning
}

// Validate checks a document against the contract.
func (v *Validator) Validate(doc *otm.Document) Result {
	data, err := json.Marshal(doc)
	if err != nil {
		return Result{Violations: []Violation{{Path: "(document)", Message: err.Error()}}}
	}
	return v.ValidateJSON(data)
}

// ValidateJSON checks raw OTM JSON against the contract. Invalid JSON is
// reported as a single document-level violation, never as a fault.
func (v *Validator) ValidateJSON(data []byte) Result {
	if v.schema == nil {
		return Result{Valid: true, SchemaUnavailable: true}
	}

	outcome, err := v.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Result{Violations: []Violation{{Path: "(document)", Message: err.Error()}}}
	}
	if outcome.Valid() {
		return Result{Valid: true}
	}

	violations := make([]Violation, 0, len(outcome.Errors()))
	for _, e := range outcome.Errors() {
		violations = append(violations, Violation{Path: e.Field(), Message: e.Description()})
	}
	return Result{Violations: violations}
}
