// Package fsscan derives threat-model input signals from a project folder:
// technology marker files, the package manifest, and repository metadata.
package fsscan

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/geoffwhittington/devici-mcp/internal/catalog"
	"github.com/geoffwhittington/devici-mcp/internal/git"
)

// Signals is everything a folder scan learned about a project. Empty fields
// mean the scan found nothing for them.
type Signals struct {
	Name        string
	Description string
	Keywords    []string
	Tags        []string
}

// maxScanDepth bounds the walk; marker files live near the project root.
const maxScanDepth = 2

// markerKeywords maps well-known file names to the technologies they imply.
var markerKeywords = map[string][]string{
	"package.json":        {"node", "javascript"},
	"go.mod":              {"go", "backend"},
	"requirements.txt":    {"python", "backend"},
	"pyproject.toml":      {"python", "backend"},
	"pom.xml":             {"java", "backend"},
	"build.gradle":        {"java", "backend"},
	"gemfile":             {"ruby", "backend"},
	"cargo.toml":          {"rust", "backend"},
	"dockerfile":          {"docker", "microservice"},
	"docker-compose.yml":  {"docker", "microservice"},
	"docker-compose.yaml": {"docker", "microservice"},
}

var skipFolders = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"__pycache__":  true,
}

// packageManifest is the slice of package.json the scan cares about.
type packageManifest struct {
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Scan inspects root and collects project signals. Scanning is best effort:
// unreadable paths and missing repository metadata only reduce what is found,
// they never fail the scan.
func Scan(logger hclog.Logger, root string) Signals {
	root = filepath.Clean(root)
	signals := Signals{}
	keywords := map[string]bool{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Debug("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && (skipFolders[d.Name()] || pathDepth(root, path) > maxScanDepth) {
				return fs.SkipDir
			}
			if strings.EqualFold(d.Name(), "migrations") {
				keywords["database"] = true
			}
			return nil
		}

		name := strings.ToLower(d.Name())
		for _, kw := range markerKeywords[name] {
			keywords[kw] = true
		}
		switch filepath.Ext(name) {
		case ".tf":
			keywords["terraform"] = true
			keywords["infrastructure"] = true
		case ".sql":
			keywords["database"] = true
		}

		if name == "package.json" && pathDepth(root, path) == 1 {
			readManifest(logger, path, &signals, keywords)
		}
		return nil
	})
	if err != nil {
		logger.Debug("folder walk stopped early", "root", root, "error", err)
	}

	if md, err := git.Collect(root); err == nil {
		if md.Branch != "" {
			signals.Tags = append(signals.Tags, "branch:"+md.Branch)
		}
		if md.Commit != "" {
			signals.Tags = append(signals.Tags, "commit:"+shortCommit(md.Commit))
		}
		if md.Origin != "" {
			signals.Tags = append(signals.Tags, "origin:"+md.Origin)
			if signals.Name == "" {
				signals.Name = originName(md.Origin)
			}
		}
	} else {
		logger.Debug("no repository metadata", "root", root, "error", err)
	}

	if signals.Name == "" {
		signals.Name = filepath.Base(root)
	}

	signals.Keywords = make([]string, 0, len(keywords))
	for kw := range keywords {
		signals.Keywords = append(signals.Keywords, kw)
	}
	sort.Strings(signals.Keywords)

	logger.Debug("folder scan finished",
		"root", root,
		"name", signals.Name,
		"keywords", len(signals.Keywords),
		"tags", len(signals.Tags),
	)
	return signals
}

// Apply merges the scanned signals into input, filling only the fields the
// caller left empty. Keywords and tags always accumulate.
func (s Signals) Apply(input catalog.Input) catalog.Input {
	if input.ProjectName == "" {
		input.ProjectName = s.Name
	}
	if input.Description == "" {
		input.Description = s.Description
	}
	input.Signals = append(input.Signals, s.Keywords...)
	input.Tags = append(input.Tags, s.Tags...)
	return input
}

// readManifest folds the root package.json into the signals: project name,
// description, and every dependency name as a keyword.
func readManifest(logger hclog.Logger, path string, signals *Signals, keywords map[string]bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("failed to read package manifest", "path", path, "error", err)
		return
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		logger.Debug("failed to parse package manifest", "path", path, "error", err)
		return
	}

	if signals.Name == "" {
		signals.Name = manifest.Name
	}
	if signals.Description == "" {
		signals.Description = manifest.Description
	}
	for dep := range manifest.Dependencies {
		keywords[strings.ToLower(dep)] = true
	}
	for dep := range manifest.DevDependencies {
		keywords[strings.ToLower(dep)] = true
	}
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(rel, string(filepath.Separator)))
}

func shortCommit(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}

// originName extracts the repository name from an origin URL, handling both
// https and scp-like ssh forms.
func originName(origin string) string {
	origin = strings.TrimSuffix(origin, "/")
	if i := strings.LastIndexAny(origin, "/:"); i >= 0 {
		return origin[i+1:]
	}
	return origin
}
