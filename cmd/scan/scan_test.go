package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateScanArgs(t *testing.T) {
	tmpDir := t.TempDir()

	tmpFile := filepath.Join(tmpDir, "main.go")
	assert.NoError(t, os.WriteFile(tmpFile, []byte("package main"), 0644))

	tests := []struct {
		name     string
		options  RunOptionsScan
		args     []string
		wantPath string
		wantErr  string
	}{
		{
			// valid: devici scan /path/to/project
			name:     "Valid project path",
			args:     []string{tmpDir},
			wantPath: tmpDir,
			wantErr:  "",
		},
		{
			// fail: devici scan
			name:    "Missing project path",
			args:    []string{},
			wantErr: "a project path must be specified",
		},
		{
			// fail: devici scan /path/one /path/two
			name:    "Multiple project paths",
			args:    []string{tmpDir, tmpDir},
			wantErr: "only one project path may be specified",
		},
		{
			// fail: devici scan /invalid/path/to/project
			name:    "Invalid project path",
			args:    []string{"/invalid/path/to/project"},
			wantErr: "the project path does not exist: /invalid/path/to/project",
		},
		{
			// fail: devici scan /path/to/file.go
			name:    "Project path is a file",
			args:    []string{tmpFile},
			wantErr: "the project path is not a directory: " + tmpFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScanArgs(&tt.options, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPath, tt.options.ProjectPath)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
