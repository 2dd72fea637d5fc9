// Package emitter serializes final OTM documents and the report that
// accompanies them. Serialization never performs network I/O; uploading the
// emitted document is the platform client's job.
package emitter

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/geoffwhittington/devici-mcp/internal/otm"
	"github.com/geoffwhittington/devici-mcp/internal/schema"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/files"
)

// Counts summarizes how many entities of each kind a document carries.
type Counts struct {
	TrustZones  int `json:"trust_zones"`
	Components  int `json:"components"`
	DataFlows   int `json:"dataflows"`
	Threats     int `json:"threats"`
	Mitigations int `json:"mitigations"`
}

// Report is the summary of one synthesis or validation run: the verdict,
// entity counts, applied fixes, warnings, and any unresolved violations.
type Report struct {
	Project           string             `json:"project"`
	Valid             bool               `json:"valid"`
	SchemaUnavailable bool               `json:"schema_unavailable,omitempty"`
	Counts            Counts             `json:"counts"`
	Fixes             []string           `json:"fixes,omitempty"`
	Warnings          []string           `json:"warnings,omitempty"`
	Violations        []schema.Violation `json:"violations,omitempty"`
}

// NewReport assembles the report for a document and its validation outcome.
func NewReport(doc *otm.Document, result schema.Result, fixes, warnings []string) Report {
	return Report{
		Project:           doc.Project.Name,
		Valid:             result.Valid,
		SchemaUnavailable: result.SchemaUnavailable,
		Counts: Counts{
			TrustZones:  len(doc.TrustZones),
			Components:  len(doc.Components),
			DataFlows:   len(doc.DataFlows),
			Threats:     len(doc.Threats),
			Mitigations: len(doc.Mitigations),
		},
		Fixes:      fixes,
		Warnings:   warnings,
		Violations: result.Violations,
	}
}

var reportTemplate = template.Must(template.New("report").Parse(`Project: {{.Project}}
Verdict: {{if .Valid}}valid{{else}}invalid{{end}}{{if .SchemaUnavailable}} (schema contract unavailable){{end}}
Entities: {{.Counts.TrustZones}} trust zones, {{.Counts.Components}} components, {{.Counts.DataFlows}} dataflows, {{.Counts.Threats}} threats, {{.Counts.Mitigations}} mitigations
{{- if .Fixes}}
Fixes applied:
{{- range .Fixes}}
  - {{.}}
{{- end}}
{{- end}}
{{- if .Warnings}}
Warnings:
{{- range .Warnings}}
  - {{.}}
{{- end}}
{{- end}}
{{- if .Violations}}
Violations:
{{- range .Violations}}
  - {{.}}
{{- end}}
{{- end}}`))

// Render formats the report for terminal output.
func (r Report) Render() string {
	var buf strings.Builder
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return fmt.Sprintf("report for project %q could not be rendered: %v", r.Project, err)
	}
	return buf.String()
}

// MarshalReport serializes the report as indented JSON.
func MarshalReport(report Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return data, nil
}

// Marshal serializes a document into the OTM wire format.
func Marshal(doc *otm.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize OTM document: %w", err)
	}
	return data, nil
}

// WriteDocument serializes the document and writes it to path.
func WriteDocument(doc *otm.Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return files.WriteJSONFile(path, data)
}

// ResolveOutputPath picks the file a document is written to. An empty
// requested path falls back to fallbackFolder; a directory path is completed
// with a file name derived from the project name. The resolved folder is
// created when missing.
func ResolveOutputPath(requested, fallbackFolder, projectName string) (string, error) {
	base := requested
	if base == "" {
		base = fallbackFolder
	}
	fullPath, folder, err := files.DetermineFileFullPath(base, DefaultFileName(projectName))
	if err != nil {
		return "", err
	}
	if err := files.CreateFolderIfNotExists(folder); err != nil {
		return "", err
	}
	return fullPath, nil
}

// DefaultFileName derives an output file name from the project name, for
// example "Retail Storefront" yields "retail-storefront-threat-model.otm".
func DefaultFileName(project string) string {
	slug := slugify(project)
	if slug == "" {
		slug = slugify(otm.DefaultProjectName)
	}
	return slug + "-threat-model.otm"
}

func slugify(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
