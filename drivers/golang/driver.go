package golang

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/emenda-labs/surfacediff/core/driver"
	"github.com/emenda-labs/surfacediff/core/surface"
	"github.com/emenda-labs/surfacediff/pkg/archive"
	"github.com/emenda-labs/surfacediff/pkg/gomod"
	"github.com/emenda-labs/surfacediff/pkg/goproxy"
)

var _ driver.SurfaceLoader = (*Driver)(nil)

// Driver implements driver.SurfaceLoader for Go modules, read either from
// a local directory or from the module proxy.
type Driver struct {
	proxyClient *goproxy.Client
	repoPath    string
	log         *slog.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithProxyClient replaces the module proxy client.
func WithProxyClient(c *goproxy.Client) Option {
	return func(d *Driver) {
		d.proxyClient = c
	}
}

// WithRepo sets the repository whose go.mod pins versions for bare module paths.
func WithRepo(path string) Option {
	return func(d *Driver) {
		d.repoPath = path
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Driver) {
		d.log = log
	}
}

// NewDriver creates a Driver with a default goproxy.Client.
func NewDriver(opts ...Option) *Driver {
	d := &Driver{log: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	if d.proxyClient == nil {
		d.proxyClient = goproxy.NewClient(goproxy.WithLogger(d.log))
	}
	return d
}

func (d *Driver) Name() string { return "go" }

// Accepts reports whether source is a directory or a module reference the
// driver can resolve. Bare module paths need a repository to pin them.
func (d *Driver) Accepts(source string) bool {
	if info, err := os.Stat(source); err == nil {
		return info.IsDir()
	}
	ms, err := ParseModuleSource(source)
	if err != nil {
		return false
	}
	return ms.Version != "" || d.repoPath != ""
}

// Load parses the exported surface of a local module directory, or
// downloads the module from the proxy and parses that.
func (d *Driver) Load(ctx context.Context, source string) (*surface.Snapshot, error) {
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		return ParseSurface(ctx, source, source, d.log)
	}

	ms, err := ParseModuleSource(source)
	if err != nil {
		return nil, err
	}
	if ms.Version == "" {
		if d.repoPath == "" {
			return nil, fmt.Errorf("no version for %s and no repository to read it from", ms.Path)
		}
		ms.Version, err = gomod.FindModuleVersion(d.log, d.repoPath, ms.Path)
		if err != nil {
			return nil, fmt.Errorf("resolving version of %s: %w", ms.Path, err)
		}
		d.log.Info("resolved module version", "module", ms.Path, "version", ms.Version, "repo", d.repoPath)
	}

	root, cleanup, err := d.FetchSource(ctx, ms.Path, ms.Version)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	declared, err := gomod.FindModulePath(root)
	if err != nil {
		return nil, fmt.Errorf("reading module path from %s: %w", ms, err)
	}
	if declared != ms.Path {
		return nil, fmt.Errorf("module mismatch: requested=%s go.mod=%s", ms.Path, declared)
	}

	return ParseSurface(ctx, root, ms.String(), d.log)
}

// FetchSource downloads the module zip from the proxy, extracts it to a
// temp directory and returns the module root inside it.
func (d *Driver) FetchSource(ctx context.Context, mod, version string) (string, func(), error) {
	data, err := d.proxyClient.DownloadZip(ctx, mod, version)
	if err != nil {
		return "", nil, fmt.Errorf("downloading zip for %s@%s: %w", mod, version, err)
	}

	dir, cleanup, err := archive.ExtractZip(data, version)
	if err != nil {
		return "", nil, fmt.Errorf("extracting zip for %s@%s: %w", mod, version, err)
	}

	// Proxy zips nest every file under "<module>@<version>/".
	root := filepath.Join(dir, filepath.FromSlash(mod+"@"+version))
	if !hasGoMod(root) {
		cleanup()
		return "", nil, fmt.Errorf("zip for %s@%s has no go.mod at its module root", mod, version)
	}
	return root, cleanup, nil
}
