package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
)

func TestGetReportName(t *testing.T) {
	ts := time.Date(2026, 8, 25, 8, 28, 46, 0, time.UTC)

	name := GetReportName("generate", "storefront", ts)

	assert.Equal(t, "generate_storefront_2026-08-25T08:28:46Z.devici-report", name)
}

func TestSaveReportJSON(t *testing.T) {
	cfg := &config.Config{}
	cfg.Devici.ResultsFolder = filepath.Join(t.TempDir(), "results")

	path, err := SaveReportJSON(cfg, hclog.NewNullLogger(), "generate", "storefront", map[string]string{"project": "storefront"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "generate_storefront_"))
	assert.True(t, strings.HasSuffix(path, ".devici-report.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "storefront", decoded["project"])
}
