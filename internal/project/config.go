package project

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"dimigrate/internal/diag"
)

// ManifestName is the file that marks a migratable project root.
const ManifestName = "dimigrate.toml"

// Config is the parsed manifest of one project.
type Config struct {
	Project ProjectConfig `toml:"project"`
}

// ProjectConfig is the [project] table.
type ProjectConfig struct {
	Name    string   `toml:"name"`
	Root    string   `toml:"root"`
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

// Manifest couples a parsed config with where it was found.
type Manifest struct {
	Path   string // absolute path to the manifest file
	Dir    string // directory containing the manifest
	Config Config
}

// SourceRoot returns the absolute directory the include patterns are
// resolved against.
func (m *Manifest) SourceRoot() string {
	root := strings.TrimSpace(m.Config.Project.Root)
	if root == "" {
		return m.Dir
	}
	return filepath.Join(m.Dir, filepath.FromSlash(root))
}

// FindManifest walks up from startDir to locate the nearest manifest.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest reads and validates the manifest at manifestPath. Validation
// failures come back as *ConfigError so callers can report them under the
// configuration category.
func LoadManifest(manifestPath string) (*Manifest, error) {
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, &ConfigError{Path: manifestPath, Code: diag.CfgUnreadable, Err: err}
	}

	var cfg Config
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Path: abs, Code: diag.CfgUnreadable, Err: ErrManifestNotFound}
		}
		return nil, &ConfigError{Path: abs, Code: diag.CfgInvalidTOML, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}

	if !meta.IsDefined("project") {
		return nil, &ConfigError{Path: abs, Code: diag.CfgMissingRoot, Err: errors.New("missing [project]")}
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, &ConfigError{Path: abs, Code: diag.CfgMissingRoot, Err: errors.New("missing [project].name")}
	}
	for i, pat := range cfg.Project.Include {
		if strings.TrimSpace(pat) == "" {
			return nil, &ConfigError{Path: abs, Code: diag.CfgEmptyInclude, Err: fmt.Errorf("[project].include[%d] is empty", i)}
		}
	}
	for i, pat := range cfg.Project.Exclude {
		if strings.TrimSpace(pat) == "" {
			return nil, &ConfigError{Path: abs, Code: diag.CfgEmptyInclude, Err: fmt.Errorf("[project].exclude[%d] is empty", i)}
		}
	}

	return &Manifest{
		Path:   abs,
		Dir:    filepath.Dir(abs),
		Config: cfg,
	}, nil
}

// Selects reports whether relPath (slash-separated, relative to the source
// root) belongs to the project. With no include patterns every .ts file
// under the root is in; an exclude pattern always wins over an include.
func (m *Manifest) Selects(relPath string) bool {
	if !strings.HasSuffix(relPath, ".ts") || strings.HasSuffix(relPath, ".d.ts") {
		return false
	}
	for _, pat := range m.Config.Project.Exclude {
		if matchPattern(pat, relPath) {
			return false
		}
	}
	if len(m.Config.Project.Include) == 0 {
		return true
	}
	for _, pat := range m.Config.Project.Include {
		if matchPattern(pat, relPath) {
			return true
		}
	}
	return false
}

// matchPattern matches relPath against pat: either an exact path.Match
// pattern or a directory prefix ("src" selects everything under src/).
func matchPattern(pat, relPath string) bool {
	pat = strings.Trim(strings.TrimSpace(pat), "/")
	if pat == "" {
		return false
	}
	if ok, err := path.Match(pat, relPath); err == nil && ok {
		return true
	}
	return relPath == pat || strings.HasPrefix(relPath, pat+"/")
}
