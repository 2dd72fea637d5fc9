package emitter

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoffwhittington/devici-mcp/internal/catalog"
	"github.com/geoffwhittington/devici-mcp/internal/otm"
	"github.com/geoffwhittington/devici-mcp/internal/schema"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/files"
)

func sampleDocument(t *testing.T) *otm.Document {
	t.Helper()
	cat := catalog.Derive(catalog.Input{
		ProjectName: "Retail Storefront",
		TechStack:   "react web app with a postgres database",
	})
	doc, warnings := otm.Build(cat)
	require.Empty(t, warnings)
	return doc
}

func TestNewReportCounts(t *testing.T) {
	doc := sampleDocument(t)

	report := NewReport(doc, schema.Result{Valid: true}, nil, nil)

	assert.Equal(t, "Retail Storefront", report.Project)
	assert.True(t, report.Valid)
	assert.Equal(t, len(doc.TrustZones), report.Counts.TrustZones)
	assert.Equal(t, len(doc.Components), report.Counts.Components)
	assert.Equal(t, len(doc.DataFlows), report.Counts.DataFlows)
	assert.Equal(t, len(doc.Threats), report.Counts.Threats)
	assert.Equal(t, len(doc.Mitigations), report.Counts.Mitigations)
}

func TestRenderValidReport(t *testing.T) {
	doc := sampleDocument(t)
	report := NewReport(doc, schema.Result{Valid: true}, nil, nil)

	rendered := report.Render()

	assert.Contains(t, rendered, "Project: Retail Storefront")
	assert.Contains(t, rendered, "Verdict: valid")
	assert.NotContains(t, rendered, "Fixes applied:")
	assert.NotContains(t, rendered, "Violations:")
}

func TestRenderReportSections(t *testing.T) {
	doc := sampleDocument(t)
	result := schema.Result{
		Violations: []schema.Violation{{Path: "components.0", Message: "parent is required"}},
	}
	fixes := []string{`assigned component "API Server" to trust zone "Private Network"`}
	warnings := []string{"schema contract could not be read"}

	rendered := NewReport(doc, result, fixes, warnings).Render()

	assert.Contains(t, rendered, "Verdict: invalid")
	assert.Contains(t, rendered, "Fixes applied:")
	assert.Contains(t, rendered, `  - assigned component "API Server" to trust zone "Private Network"`)
	assert.Contains(t, rendered, "Warnings:")
	assert.Contains(t, rendered, "  - schema contract could not be read")
	assert.Contains(t, rendered, "Violations:")
	assert.Contains(t, rendered, "  - components.0: parent is required")
}

func TestRenderFlagsUnavailableSchema(t *testing.T) {
	doc := sampleDocument(t)
	report := NewReport(doc, schema.Result{Valid: true, SchemaUnavailable: true}, nil, nil)

	assert.Contains(t, report.Render(), "Verdict: valid (schema contract unavailable)")
}

func TestWriteDocumentRoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "storefront.otm")

	require.NoError(t, WriteDocument(doc, path))
	require.NoError(t, files.ValidatePath(path))

	data, err := Marshal(doc)
	require.NoError(t, err)
	loaded, err := otm.Load(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Project.Name, loaded.Project.Name)
	assert.Len(t, loaded.Components, len(doc.Components))
	assert.Len(t, loaded.Threats, len(doc.Threats))
}

func TestMarshalWireFieldNames(t *testing.T) {
	data, err := Marshal(sampleDocument(t))
	require.NoError(t, err)

	var wire map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &wire))

	keys := []string{
		"otmVersion", "project", "representations", "trustZones",
		"components", "dataflows", "threats", "mitigations",
	}
	for _, key := range keys {
		assert.Contains(t, wire, key)
	}
	assert.JSONEq(t, `"0.2.0"`, string(wire["otmVersion"]))
}

func TestResolveOutputPath(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		requested string
		fallback  string
		project   string
		want      string
	}{
		{
			name:     "empty request falls back to folder",
			fallback: filepath.Join(tmpDir, "results"),
			project:  "Storefront",
			want:     filepath.Join(tmpDir, "results", "storefront-threat-model.otm"),
		},
		{
			name:      "directory request gets a derived name",
			requested: tmpDir,
			fallback:  filepath.Join(tmpDir, "results"),
			project:   "Storefront",
			want:      filepath.Join(tmpDir, "storefront-threat-model.otm"),
		},
		{
			name:      "file request is used directly",
			requested: filepath.Join(tmpDir, "custom.otm"),
			fallback:  filepath.Join(tmpDir, "results"),
			project:   "Storefront",
			want:      filepath.Join(tmpDir, "custom.otm"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveOutputPath(tc.requested, tc.fallback, tc.project)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveOutputPathCreatesFolder(t *testing.T) {
	folder := filepath.Join(t.TempDir(), "nested", "results")

	path, err := ResolveOutputPath("", folder, "Storefront")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(folder, "storefront-threat-model.otm"), path)
	require.NoError(t, WriteDocument(sampleDocument(t), path))
}

func TestDefaultFileName(t *testing.T) {
	tests := []struct {
		name    string
		project string
		want    string
	}{
		{name: "simple name", project: "Storefront", want: "storefront-threat-model.otm"},
		{name: "spaces become hyphens", project: "Retail Storefront", want: "retail-storefront-threat-model.otm"},
		{name: "punctuation collapses", project: "My  App / v2", want: "my-app-v2-threat-model.otm"},
		{name: "empty falls back to default project", project: "", want: "untitled-project-threat-model.otm"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DefaultFileName(tc.project))
		})
	}
}
