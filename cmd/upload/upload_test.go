package upload

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
)

const validOTM = `{
  "otmVersion": "0.2.0",
  "project": {"id": "p-1", "name": "Checkout", "description": "payment flow"},
  "trustZones": [{"id": "tz-1", "name": "Private Network"}],
  "components": [
    {"id": "c-1", "name": "API Server", "type": "api-server", "parent": {"trustZone": "tz-1"}},
    {"id": "c-2", "name": "Datastore", "type": "datastore", "parent": {"trustZone": "tz-1"}}
  ],
  "dataflows": [],
  "threats": [
    {"id": "t-1", "name": "Tampering with data in transit", "risk": {"likelihood": 50, "impact": 75}, "targets": ["c-1"]}
  ],
  "mitigations": [
    {"id": "m-1", "name": "Enforce TLS", "riskReduction": 80, "reducesRisk": [{"threat": "t-1"}]}
  ]
}`

func newTestConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Devici.BaseURL = baseURL
	cfg.Devici.Collection = "Sandbox"
	cfg.Devici.ResultsFolder = filepath.Join(t.TempDir(), "results")
	Init(cfg)
	return cfg
}

func writeOTMFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkout.otm")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestValidateUploadArgs(t *testing.T) {
	tmpDir := t.TempDir()

	tmpFile := filepath.Join(tmpDir, "model.otm")
	assert.NoError(t, os.WriteFile(tmpFile, []byte("{}"), 0644))

	tests := []struct {
		name    string
		options RunOptionsUpload
		args    []string
		wantErr string
	}{
		{
			// valid: devici upload /path/to/model.otm
			name:    "Valid file path",
			args:    []string{tmpFile},
			wantErr: "",
		},
		{
			// valid: devici upload --input-file /path/to/model.otm --collection Sandbox
			name: "Valid input file flag",
			options: RunOptionsUpload{
				InputFile:  tmpFile,
				Collection: "Sandbox",
			},
			args:    []string{},
			wantErr: "",
		},
		{
			// fail: devici upload --collection Sandbox
			name: "Missing file",
			options: RunOptionsUpload{
				Collection: "Sandbox",
			},
			args:    []string{},
			wantErr: "either 'input-file' flag or a file path must be specified",
		},
		{
			// fail: devici upload --input-file /path/to/model.otm /path/to/other.otm
			name: "Both input file and path",
			options: RunOptionsUpload{
				InputFile: tmpFile,
			},
			args:    []string{tmpFile},
			wantErr: "you cannot use an 'input-file' flag and a file path at the same time",
		},
		{
			// fail: devici upload /invalid/path/to/model.otm
			name:    "Invalid file path",
			args:    []string{"/invalid/path/to/model.otm"},
			wantErr: "invalid OTM file: path stat error: stat /invalid/path/to/model.otm: no such file or directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUploadArgs(&tt.options, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, tmpFile, tt.options.InputFile)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}

func TestRunUploadFailsWithoutCredentials(t *testing.T) {
	newTestConfig(t, "http://localhost:1")
	t.Setenv(config.EnvClientID, "")
	t.Setenv(config.EnvClientSecret, "")
	otmPath := writeOTMFile(t, validOTM)
	uploadOptions = RunOptionsUpload{}

	err := runUploadCommand(UploadCmd, []string{otmPath})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvClientID)
	assert.Contains(t, err.Error(), config.EnvClientSecret)
}

func TestRunUploadEndToEnd(t *testing.T) {
	var componentsCreated int
	var bulkPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth":
			writeJSON(t, w, http.StatusOK, map[string]string{"access_token": "tok-123", "token_type": "Bearer"})
		case r.Method == http.MethodGet && r.URL.Path == "/collections/":
			assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
			writeJSON(t, w, http.StatusOK, map[string]interface{}{
				"items": []map[string]string{{"id": "col-1", "title": "Sandbox"}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/threat-models":
			writeJSON(t, w, http.StatusCreated, map[string]string{"id": "tm-1", "title": "Checkout"})
		case r.Method == http.MethodGet && r.URL.Path == "/threat-models/tm-1":
			writeJSON(t, w, http.StatusOK, map[string]string{"id": "tm-1"})
		case r.Method == http.MethodPost && r.URL.Path == "/components":
			componentsCreated++
			writeJSON(t, w, http.StatusOK, map[string]string{"component": "comp-1"})
		case r.Method == http.MethodPost && r.URL.Path == "/threat-models/otm/col-1":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&bulkPayload))
			writeJSON(t, w, http.StatusOK, map[string]int{"threatsCreated": 1, "mitigationsCreated": 1})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	cfg := newTestConfig(t, server.URL)
	t.Setenv(config.EnvClientID, "client-1")
	t.Setenv(config.EnvClientSecret, "secret-1")
	otmPath := writeOTMFile(t, validOTM)
	uploadOptions = RunOptionsUpload{}

	err := runUploadCommand(UploadCmd, []string{otmPath})

	require.NoError(t, err)
	assert.Equal(t, 2, componentsCreated)
	require.NotNil(t, bulkPayload)
	assert.Equal(t, "tm-1", bulkPayload["threatModelId"])

	entries, err := os.ReadDir(cfg.Devici.ResultsFolder)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "upload_Checkout_")
}
