package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/files"
)

// GetReportName builds the artifact name for a command run.
// Example: generate_storefront_2026-08-25T08:28:46Z.devici-report.
func GetReportName(command, project string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	return fmt.Sprintf("%s_%s_%s.devici-report", command, project, ts)
}

// SaveReportJSON writes a run report to <results>/<name>.json so every
// command run leaves a machine-readable record. Returns the full path.
func SaveReportJSON(cfg *config.Config, logger hclog.Logger, command, project string, report interface{}) (string, error) {
	dir := cfg.Devici.ResultsFolder
	base := GetReportName(command, project, time.Now())
	path := filepath.Join(dir, base+".json")

	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the report: %w", err)
	}

	if err := files.CreateFolderIfNotExists(dir); err != nil {
		return path, err
	}
	if err := files.WriteJSONFile(path, data); err != nil {
		return path, fmt.Errorf("error writing report to file: %w", err)
	}
	logger.Info("report saved to file", "path", path)

	return path, nil
}
