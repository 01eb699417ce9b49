package golang

import (
	"fmt"
	"strings"

	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// ModuleSource names a module to fetch from the proxy. An empty Version
// means the version is taken from the repository's go.mod.
type ModuleSource struct {
	Path    string
	Version string
}

func (m ModuleSource) String() string {
	if m.Version == "" {
		return m.Path
	}
	return m.Path + "@" + m.Version
}

// ParseModuleSource parses "path@version" or a bare module path.
func ParseModuleSource(src string) (ModuleSource, error) {
	path, version, hasVersion := strings.Cut(src, "@")
	if err := module.CheckPath(path); err != nil {
		return ModuleSource{}, fmt.Errorf("invalid module path %q: %w", path, err)
	}
	if !hasVersion {
		return ModuleSource{Path: path}, nil
	}
	if !semver.IsValid(version) {
		return ModuleSource{}, fmt.Errorf("invalid version %q for %s: not a semantic version", version, path)
	}
	if err := module.Check(path, version); err != nil {
		return ModuleSource{}, fmt.Errorf("invalid module version %s: %w", src, err)
	}
	return ModuleSource{Path: path, Version: version}, nil
}
