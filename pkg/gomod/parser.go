package gomod

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// readModFile reads and parses the go.mod in dir.
func readModFile(dir string) (*modfile.File, string, error) {
	gomodPath := filepath.Join(dir, "go.mod")

	data, err := os.ReadFile(gomodPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, gomodPath, fmt.Errorf("no go.mod found at %s", gomodPath)
		}
		return nil, gomodPath, fmt.Errorf("failed to read go.mod: %w", err)
	}

	f, err := modfile.Parse(gomodPath, data, nil)
	if err != nil {
		return nil, gomodPath, fmt.Errorf("failed to parse go.mod: %w", err)
	}
	return f, gomodPath, nil
}

// FindModulePath returns the module path declared by the go.mod in dir.
func FindModulePath(dir string) (string, error) {
	f, gomodPath, err := readModFile(dir)
	if err != nil {
		return "", err
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return "", fmt.Errorf("no module directive in %s", gomodPath)
	}
	return f.Module.Mod.Path, nil
}

// FindModuleVersion reads the go.mod at the given repo path and returns
// the required version of the specified module. A replace directive for
// the module is logged, and the version from the require line is still
// returned.
func FindModuleVersion(log *slog.Logger, repoPath, module string) (string, error) {
	f, gomodPath, err := readModFile(repoPath)
	if err != nil {
		return "", err
	}

	for _, rep := range f.Replace {
		if rep.Old.Path == module {
			log.Warn("module has a replace directive, proxy version may differ from local source",
				"module", module, "replacement", rep.New.Path)
			break
		}
	}

	for _, req := range f.Require {
		if req.Mod.Path == module {
			return req.Mod.Version, nil
		}
	}

	return "", fmt.Errorf("module %s not found in go.mod at %s", module, gomodPath)
}
