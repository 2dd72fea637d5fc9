// Package git extracts repository metadata used to tag scanned projects.
package git

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Metadata describes the repository enclosing a scanned project folder.
// Fields are empty when the repository has no commits or no origin remote.
type Metadata struct {
	Branch string
	Commit string
	Origin string
}

// Collect gathers branch, commit, and origin information for the repository
// containing sourceFolder. The folder may sit anywhere inside the work tree.
func Collect(sourceFolder string) (*Metadata, error) {
	if sourceFolder == "" {
		return nil, fmt.Errorf("source folder is not set")
	}

	if abs, err := filepath.Abs(sourceFolder); err == nil {
		sourceFolder = abs
	}

	repoRoot, err := findRepositoryPath(sourceFolder)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	md := &Metadata{}
	if head, err := repo.Head(); err == nil {
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
		md.Commit = head.Hash().String()
	}

	if remote, err := repo.Remote("origin"); err == nil {
		if cfg := remote.Config(); cfg != nil && len(cfg.URLs) > 0 {
			md.Origin = strings.TrimSuffix(cfg.URLs[0], ".git")
		}
	}

	return md, nil
}

// findRepositoryPath walks up from sourceFolder until a repository opens.
func findRepositoryPath(sourceFolder string) (string, error) {
	for {
		if _, err := git.PlainOpen(sourceFolder); err == nil {
			return sourceFolder, nil
		}

		parent := filepath.Dir(sourceFolder)
		if parent == sourceFolder {
			return "", fmt.Errorf("folder %q is not inside a git repository", sourceFolder)
		}
		sourceFolder = parent
	}
}
